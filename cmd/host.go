package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bsx/internal/shared"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// cliHost stands in for the browser when lifecycle events are driven from the command line.
//
// It implements [upgrade.Host], [upgrade.Tracker] and [upgrade.LinkOpener] by logging,
// and opens links in the system browser when extension.open_browser is set.
type cliHost struct {
	cfg    shared.ExtensionConfig
	logger *log.Logger
	open   func(ctx context.Context, url string) error
}

func newCLIHost(cfg shared.ExtensionConfig, logger *log.Logger) *cliHost {
	return &cliHost{cfg: cfg, logger: logger, open: shared.OpenBrowser}
}

func (h *cliHost) Reinitialize(ctx context.Context) error {
	h.logger.Info("content scripts reinitialized")
	return nil
}

func (h *cliHost) Reload(ctx context.Context) error {
	h.logger.Info("extension reloaded to apply pending update")
	return nil
}

func (h *cliHost) UILanguage() string { return h.cfg.UILanguage }
func (h *cliHost) UserAgent() string  { return h.cfg.UserAgent }

func (h *cliHost) ExtensionURL(path string) string {
	return strings.TrimRight(h.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (h *cliHost) Track(ctx context.Context, event upgrade.Event) error {
	h.logger.Info("tracked event", "name", event.Name, "value", event.Value, "always", event.Always)
	return nil
}

func (h *cliHost) OpenLink(ctx context.Context, opts upgrade.LinkOptions) error {
	h.logger.Info("open link", "href", opts.Href, "new_tab", opts.NewTab, "active", opts.Active)
	if !h.cfg.OpenBrowser {
		return nil
	}
	return h.open(ctx, opts.Href)
}

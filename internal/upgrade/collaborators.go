package upgrade

import (
	"context"

	"github.com/desertthunder/bsx/internal/models"
)

// Host is the runtime the extension runs in.
type Host interface {
	Reinitialize(ctx context.Context) error // Reinitialize restarts the content scripts after migration work
	Reload(ctx context.Context) error       // Reload restarts the extension's own execution context
	UILanguage() string                     // UILanguage returns the browser UI locale, e.g. "zh_CN"
	UserAgent() string                      // UserAgent identifies the browser
	ExtensionURL(path string) string        // ExtensionURL resolves a path inside the extension package
}

// Event is an analytics event handed to a [Tracker].
type Event struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Always bool   `json:"always"`
}

// Tracker records analytics events.
type Tracker interface {
	Track(ctx context.Context, event Event) error
}

// LinkOptions describes a link to open.
type LinkOptions struct {
	Href      string `json:"href"`
	NewTab    bool   `json:"newTab"`
	Active    bool   `json:"active"`
	Incognito bool   `json:"incognito"`
}

// LinkOpener opens links on behalf of the extension.
type LinkOpener interface {
	OpenLink(ctx context.Context, opts LinkOptions) error
}

// EventRecorder stores lifecycle history. Implemented by repositories.EventRepository.
type EventRecorder interface {
	Create(ctx context.Context, event *models.LifecycleEvent) error
}

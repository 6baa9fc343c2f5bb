package upgrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// DefaultOnboardingPath is the page opened after a fresh install.
const DefaultOnboardingPath = "html/intro.html"

// Options holds the collaborators of a [Helper].
type Options struct {
	Sync    models.Store // Sync holds the settings sections
	Local   models.Store // Local holds installationDate and languageInfos
	Host    Host
	Tracker Tracker
	Links   LinkOpener
	History EventRecorder // optional

	Version        string // Version is the currently installed extension version
	OnboardingPath string
	// ReloadLimiter throttles update-available reloads. Nil allows one reload per minute.
	// The time of the last reload is kept in the local store, so the spacing it
	// implies also holds across helpers built in separate processes.
	ReloadLimiter *rate.Limiter

	Engine *Engine
	Now    func() time.Time
	Logger *log.Logger
}

// Outcome describes what the helper did for one lifecycle event.
type Outcome struct {
	Kind            string
	PreviousVersion string
	CurrentVersion  string
	Transition      Transition
	Rules           *Report
	Writes          *WriteResult
	Reinitialized   bool
	Err             error
}

// Event converts the outcome into a history record.
func (o *Outcome) Event() *models.LifecycleEvent {
	e := &models.LifecycleEvent{
		Kind:            o.Kind,
		PreviousVersion: o.PreviousVersion,
		CurrentVersion:  o.CurrentVersion,
		Transition:      o.Transition.String(),
		FailedRules:     o.Rules.FailedRules(),
		FailedSections:  o.Writes.FailedSections(),
	}
	if o.Rules != nil {
		e.AppliedRules = o.Rules.Applied
	}
	if o.Err != nil {
		e.ErrorMessage = o.Err.Error()
	}
	return e
}

// Helper reacts to install, update and update-available events.
type Helper struct {
	sync, local    models.Store
	host           Host
	tracker        Tracker
	links          LinkOpener
	history        EventRecorder
	version        string
	onboardingPath string
	limiter        *rate.Limiter
	engine         *Engine
	detector       *Detector
	coordinator    *Coordinator
	now            func() time.Time
	logger         *log.Logger
}

// NewHelper validates opts and builds a Helper.
func NewHelper(opts Options) (*Helper, error) {
	switch {
	case opts.Sync == nil:
		return nil, fmt.Errorf("%w: sync store", shared.ErrMissingArgument)
	case opts.Local == nil:
		return nil, fmt.Errorf("%w: local store", shared.ErrMissingArgument)
	case opts.Host == nil:
		return nil, fmt.Errorf("%w: host", shared.ErrMissingArgument)
	case opts.Tracker == nil:
		return nil, fmt.Errorf("%w: tracker", shared.ErrMissingArgument)
	case opts.Links == nil:
		return nil, fmt.Errorf("%w: link opener", shared.ErrMissingArgument)
	}
	if _, err := ParseVersion(opts.Version); err != nil {
		return nil, fmt.Errorf("%w: current version: %w", shared.ErrInvalidArgument, err)
	}

	if opts.OnboardingPath == "" {
		opts.OnboardingPath = DefaultOnboardingPath
	}
	if opts.ReloadLimiter == nil {
		opts.ReloadLimiter = rate.NewLimiter(rate.Every(time.Minute), 1)
	}
	if opts.Engine == nil {
		opts.Engine = NewEngine()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &Helper{
		sync:           opts.Sync,
		local:          opts.Local,
		host:           opts.Host,
		tracker:        opts.Tracker,
		links:          opts.Links,
		history:        opts.History,
		version:        opts.Version,
		onboardingPath: opts.OnboardingPath,
		limiter:        opts.ReloadLimiter,
		engine:         opts.Engine,
		detector:       NewDetector(opts.Now),
		coordinator:    NewCoordinator(opts.Sync, opts.Logger),
		now:            opts.Now,
		logger:         opts.Logger,
	}, nil
}

// OnInstalled handles an install event.
//
// A fresh install is tracked, gets the install rules, and opens the onboarding
// page. The host is reinitialized in every case.
func (h *Helper) OnInstalled(ctx context.Context) (*Outcome, error) {
	out := &Outcome{Kind: models.EventInstalled, CurrentVersion: h.version}
	var errs []error

	installedAt, known, err := h.installationDate(ctx)
	if err != nil {
		h.logger.Warn("installation date unreadable, treating as absent", "error", err)
		errs = append(errs, err)
	}

	out.Transition = h.detector.ClassifyInstall(installedAt, known)
	h.logger.Info("install event", "transition", out.Transition)

	if out.Transition == FreshInstall {
		event := Event{Name: "action", Value: map[string]string{"name": "install", "value": "true"}, Always: true}
		if err := h.tracker.Track(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("track install: %w", err))
		}

		errs = append(errs, h.updateOptions(ctx, OnInstall, out))

		link := LinkOptions{Href: h.host.ExtensionURL(h.onboardingPath), NewTab: true, Active: true}
		if err := h.links.OpenLink(ctx, link); err != nil {
			errs = append(errs, fmt.Errorf("open onboarding page: %w", err))
		}

		if !known {
			if err := h.recordInstallation(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}

	errs = append(errs, h.reinitialize(ctx, out))
	return h.finish(ctx, out, errs)
}

// OnUpdated handles an update from previousVersion to the current version.
//
// languageInfos is always dropped from the local store. Settings are only
// migrated on a major or minor version jump; the host is reinitialized regardless.
func (h *Helper) OnUpdated(ctx context.Context, previousVersion string) (*Outcome, error) {
	out := &Outcome{Kind: models.EventUpdated, PreviousVersion: previousVersion, CurrentVersion: h.version}
	var errs []error

	if err := h.local.Remove(ctx, models.KeyLanguageInfos); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", models.KeyLanguageInfos, err))
	}

	transition, err := h.detector.ClassifyUpdate(previousVersion, h.version)
	if err != nil {
		h.logger.Warn("unreadable version, migrating conservatively", "previous", previousVersion, "current", h.version, "error", err)
	}
	out.Transition = transition
	h.logger.Info("update event", "from", previousVersion, "to", h.version, "transition", transition)

	if transition == MinorOrMajorUpgrade {
		errs = append(errs, h.updateOptions(ctx, OnUpgrade, out))
	}

	errs = append(errs, h.reinitialize(ctx, out))
	return h.finish(ctx, out, errs)
}

// OnUpdateAvailable reloads the extension so the pending update is applied.
// Reloads beyond the limiter's budget return [shared.ErrThrottled].
func (h *Helper) OnUpdateAvailable(ctx context.Context) error {
	if h.reloadThrottled(ctx) {
		h.logger.Warn("reload throttled")
		return shared.ErrThrottled
	}

	out := &Outcome{Kind: models.EventUpdateAvailable, CurrentVersion: h.version, Transition: SameOrPatchUpdate}
	var errs []error
	if err := h.host.Reload(ctx); err != nil {
		errs = append(errs, fmt.Errorf("reload: %w", err))
	} else if err := models.SetJSON(ctx, h.local, models.KeyLastReload, h.now().UnixMilli()); err != nil {
		errs = append(errs, fmt.Errorf("record reload: %w", err))
	}
	_, err := h.finish(ctx, out, errs)
	return err
}

// reloadThrottled checks the stored last reload against the limiter's spacing
// before spending a token from the limiter itself.
func (h *Helper) reloadThrottled(ctx context.Context) bool {
	now := h.now()

	var ms int64
	ok, err := models.GetJSON(ctx, h.local, models.KeyLastReload, &ms)
	if err != nil {
		h.logger.Warn("ignoring unreadable last reload", "error", err)
	}
	if limit := h.limiter.Limit(); ok && err == nil && limit > 0 && limit != rate.Inf {
		spacing := time.Duration(float64(time.Second) / float64(limit))
		if elapsed := now.Sub(time.UnixMilli(ms)); elapsed >= 0 && elapsed < spacing {
			return true
		}
	}
	return !h.limiter.AllowN(now, 1)
}

// updateOptions loads the settings, applies the rule set and persists all sections.
func (h *Helper) updateOptions(ctx context.Context, set RuleSet, out *Outcome) error {
	raw, err := h.sync.All(ctx)
	if err != nil {
		return fmt.Errorf("%w: load settings: %w", shared.ErrPersistence, err)
	}

	doc, err := models.DecodeSettings(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrCorruptData, err)
	}

	env := Env{UILanguage: h.host.UILanguage(), UserAgent: h.host.UserAgent()}
	out.Rules = h.engine.Apply(doc, set, env)
	for _, f := range out.Rules.Failed {
		h.logger.Warn("migration rule failed", "set", set, "rule", f.Rule, "error", f.Err)
	}

	writes, err := h.coordinator.Persist(ctx, doc)
	if err != nil {
		return err
	}
	out.Writes = writes

	return errors.Join(out.Rules.Err(), writes.Err())
}

func (h *Helper) reinitialize(ctx context.Context, out *Outcome) error {
	if err := h.host.Reinitialize(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrReinitialize, err)
	}
	out.Reinitialized = true
	return nil
}

// installationDate reads the stored installation timestamp (unix milliseconds).
func (h *Helper) installationDate(ctx context.Context) (time.Time, bool, error) {
	var ms int64
	ok, err := models.GetJSON(ctx, h.local, models.KeyInstallationDate, &ms)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}

func (h *Helper) recordInstallation(ctx context.Context) error {
	if err := models.SetJSON(ctx, h.local, models.KeyInstallationDate, h.now().UnixMilli()); err != nil {
		return fmt.Errorf("record installation date: %w", err)
	}
	return nil
}

// finish aggregates errors onto the outcome and records it in the history.
func (h *Helper) finish(ctx context.Context, out *Outcome, errs []error) (*Outcome, error) {
	out.Err = errors.Join(errs...)

	if h.history != nil {
		if err := h.history.Create(context.WithoutCancel(ctx), out.Event()); err != nil {
			h.logger.Warn("failed to record lifecycle event", "kind", out.Kind, "error", err)
		}
	}

	if out.Err != nil {
		h.logger.Error("lifecycle event finished with errors", "kind", out.Kind, "error", out.Err)
	}
	return out, out.Err
}

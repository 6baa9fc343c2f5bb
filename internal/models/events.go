package models

import (
	"fmt"
	"time"
)

// Lifecycle event kinds.
const (
	EventInstalled       = "installed"
	EventUpdated         = "updated"
	EventUpdateAvailable = "update_available"
)

// LifecycleEvent is one recorded install/update event and what the upgrade layer did about it.
type LifecycleEvent struct {
	ID              string
	Sequence        int
	Kind            string
	PreviousVersion string
	CurrentVersion  string
	Transition      string
	AppliedRules    []string
	FailedRules     []string
	FailedSections  []string
	ErrorMessage    string
	CreatedAt       time.Time
}

// Validate checks the fields required to persist the event.
func (e *LifecycleEvent) Validate() error {
	switch e.Kind {
	case EventInstalled, EventUpdated, EventUpdateAvailable:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.CurrentVersion == "" {
		return fmt.Errorf("current version is required")
	}
	if e.Transition == "" {
		return fmt.Errorf("transition is required")
	}
	return nil
}

// Failed reports whether any rule or section failed, or an error was recorded.
func (e *LifecycleEvent) Failed() bool {
	return len(e.FailedRules) > 0 || len(e.FailedSections) > 0 || e.ErrorMessage != ""
}

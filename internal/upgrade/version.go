package upgrade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/bsx/internal/shared"
)

// Transition classifies a lifecycle event.
type Transition int

const (
	FreshInstall        Transition = iota // genuine first install
	KnownInstall                          // install event for an already known installation
	SameOrPatchUpdate                     // major.minor unchanged
	MinorOrMajorUpgrade                   // major or minor changed, or a version was unreadable
)

func (t Transition) String() string {
	switch t {
	case FreshInstall:
		return "fresh_install"
	case KnownInstall:
		return "known_install"
	case SameOrPatchUpdate:
		return "same_or_patch_update"
	case MinorOrMajorUpgrade:
		return "minor_or_major_upgrade"
	default:
		return "unknown"
	}
}

// FreshInstallWindow is how recent a stored installation timestamp must be for an install event to count as fresh.
const FreshInstallWindow = 60 * time.Second

// Version is a parsed dot-separated version string with at least major and minor components.
type Version []int

// ParseVersion parses strings such as "1.7" or "2.1.9".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least major and minor", shared.ErrMalformedVersion, s)
	}

	v := make(Version, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return nil, fmt.Errorf("%w: %q component %d", shared.ErrMalformedVersion, s, i)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q component %d", shared.ErrMalformedVersion, s, i)
		}
		v[i] = n
	}
	return v, nil
}

func (v Version) Major() int { return v[0] }
func (v Version) Minor() int { return v[1] }

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Detector classifies install and update events.
//
// Install classification is a heuristic: an install counts as fresh when no
// installation timestamp is stored, or the stored one is younger than
// [FreshInstallWindow]. The install moment is not recorded independently of
// this check, so a failed timestamp write or clock skew can misclassify.
type Detector struct {
	now func() time.Time
}

// NewDetector creates a Detector. A nil clock uses [time.Now].
func NewDetector(now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{now: now}
}

// ClassifyInstall classifies an install event given the stored installation timestamp, if any.
func (d *Detector) ClassifyInstall(installedAt time.Time, ok bool) Transition {
	if !ok || d.now().Sub(installedAt) < FreshInstallWindow {
		return FreshInstall
	}
	return KnownInstall
}

// ClassifyUpdate compares major and minor components only; patch changes never count as an upgrade.
//
// A malformed version on either side yields [MinorOrMajorUpgrade] together with
// an error wrapping [shared.ErrMalformedVersion]; the transition is always usable.
func (d *Detector) ClassifyUpdate(previous, current string) (Transition, error) {
	prev, err := ParseVersion(previous)
	if err != nil {
		return MinorOrMajorUpgrade, fmt.Errorf("previous version: %w", err)
	}
	cur, err := ParseVersion(current)
	if err != nil {
		return MinorOrMajorUpgrade, fmt.Errorf("current version: %w", err)
	}

	if prev.Major() == cur.Major() && prev.Minor() == cur.Minor() {
		return SameOrPatchUpdate, nil
	}
	return MinorOrMajorUpgrade, nil
}

// package pagetype classifies the page a content script runs on
package pagetype

import "regexp"

// Page labels.
const (
	Newtab     = "newtab"
	Website    = "website"
	Onboarding = "onboarding"
	Chrome     = "chrome"
	Extension  = "extension"
	Local      = "local"
	Other      = "other"
)

// Rule labels URLs starting with a match of Pattern.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// Classifier holds an ordered rule list. The first matching rule wins.
type Classifier struct {
	rules []Rule
}

// DefaultRules returns the built-in rules, in match order.
func DefaultRules() []Rule {
	return []Rule{
		{Newtab, regexp.MustCompile(`(?i)^https?://www\.google\..+/_/chrome/newtab`)},
		{Website, regexp.MustCompile(`(?i)^https?://`)},
		{Onboarding, regexp.MustCompile(`(?i)^chrome-extension://.*/intro\.html`)},
		{Chrome, regexp.MustCompile(`(?i)^chrome://`)},
		{Extension, regexp.MustCompile(`(?i)^chrome-extension://`)},
		{Local, regexp.MustCompile(`(?i)^file://`)},
	}
}

// New returns a Classifier over rules. No rules means the defaults.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the label of the first rule matching url, or [Other].
func (c *Classifier) Classify(url string) string {
	for _, r := range c.rules {
		if loc := r.Pattern.FindStringIndex(url); loc != nil && loc[0] == 0 {
			return r.Label
		}
	}
	return Other
}

// HasMask reports whether the sidebar mask is shown on url.
func (c *Classifier) HasMask(url string) bool {
	switch c.Classify(url) {
	case Newtab, Onboarding:
		return false
	default:
		return true
	}
}

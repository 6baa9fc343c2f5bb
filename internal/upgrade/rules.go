package upgrade

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// RuleSet selects which migrations run for a lifecycle event.
type RuleSet int

const (
	OnInstall RuleSet = iota
	OnUpgrade
)

func (s RuleSet) String() string {
	switch s {
	case OnInstall:
		return "install"
	case OnUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Env carries the host facts rules may depend on.
type Env struct {
	UILanguage string
	UserAgent  string
}

// Rule is one named transformation of a settings document.
type Rule struct {
	Name  string
	Apply func(doc *models.SettingsDocument, env Env) error
}

// RuleFailure reports a rule that returned an error or panicked.
type RuleFailure struct {
	Rule string
	Err  error
}

func (f RuleFailure) Error() string {
	return fmt.Sprintf("%v: %s: %v", shared.ErrRuleFailed, f.Rule, f.Err)
}

func (f RuleFailure) Unwrap() []error {
	return []error{shared.ErrRuleFailed, f.Err}
}

// Report lists the outcome of every rule in a set, in application order.
type Report struct {
	Set     RuleSet
	Applied []string
	Failed  []RuleFailure
}

// Err joins all rule failures, or returns nil when every rule applied.
func (r *Report) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// FailedRules returns the names of the failed rules.
func (r *Report) FailedRules() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		names[i] = f.Rule
	}
	return names
}

// Engine applies ordered rule sets to a settings document.
type Engine struct {
	rules map[RuleSet][]Rule
}

// NewEngine returns an Engine with the built-in install and upgrade rules.
func NewEngine() *Engine {
	return NewEngineWithRules(map[RuleSet][]Rule{
		OnInstall: InstallRules(),
		OnUpgrade: UpgradeRules(),
	})
}

// NewEngineWithRules returns an Engine over custom rule sets.
func NewEngineWithRules(rules map[RuleSet][]Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the rules of a set in application order.
func (e *Engine) Rules(set RuleSet) []Rule {
	return e.rules[set]
}

// Apply runs every rule of the set against doc. A failing rule never stops the rules after it.
func (e *Engine) Apply(doc *models.SettingsDocument, set RuleSet, env Env) *Report {
	doc.Normalize()

	report := &Report{Set: set}
	for _, rule := range e.rules[set] {
		if err := applyRule(rule, doc, env); err != nil {
			report.Failed = append(report.Failed, RuleFailure{Rule: rule.Name, Err: err})
			continue
		}
		report.Applied = append(report.Applied, rule.Name)
	}
	return report
}

func applyRule(rule Rule, doc *models.SettingsDocument, env Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Apply(doc, env)
}

// InstallRules returns the rules run after a fresh install.
func InstallRules() []Rule {
	return []Rule{
		{Name: "locale-defaults", Apply: applyLocaleDefaults},
	}
}

// UpgradeRules returns the rules run after a minor or major version jump, in order.
func UpgradeRules() []Rule {
	return []Rule{
		{Name: "remove-obsolete-keys", Apply: removeObsoleteKeys},
		{Name: "normalize-icon-color", Apply: normalizeIconColor},
		{Name: "disable-newtab-override", Apply: disableNewtabOverride},
		{Name: "quote-font-family", Apply: quoteFontFamily},
	}
}

const chineseLocale = "zh_CN"

func applyLocaleDefaults(doc *models.SettingsDocument, env Env) error {
	if env.UILanguage != chineseLocale {
		return nil
	}
	doc.Newtab["searchEngine"] = "baidu"
	doc.Newtab["shortcuts"] = []any{
		map[string]any{"label": "百度", "url": "https://www.baidu.com/"},
	}
	return nil
}

var obsoleteKeys = map[string][]string{
	models.KeyBehaviour: {
		"contextmenu", "dndOpen", "initialOpenOnNewTab", "rememberSearch",
		"rememberScroll", "autoOpen", "pxTolerance", "scrollSensitivity",
		"hideEmptyDirs", "replaceNewTab", "language", "model",
	},
	models.KeyAppearance: {"language", "sidebarPosition", "addVisual"},
	models.KeyNewtab:     {"initialOpen"},
}

func removeObsoleteKeys(doc *models.SettingsDocument, _ Env) error {
	for section, keys := range obsoleteKeys {
		s := doc.Section(section)
		for _, key := range keys {
			delete(s, key)
		}
	}
	return nil
}

// IconColorAuto follows the OS light/dark setting.
const IconColorAuto = "auto"

var legacyIconColors = map[string]bool{"#555555": true, "#555": true}

func normalizeIconColor(doc *models.SettingsDocument, _ Env) error {
	styles, err := doc.Styles()
	if err != nil {
		return err
	}

	v, ok := styles["iconColor"]
	if !ok {
		styles["iconColor"] = IconColorAuto
		return nil
	}
	if s, isString := v.(string); isString && legacyIconColors[s] {
		styles["iconColor"] = IconColorAuto
	}
	return nil
}

// Edge and Opera could not use the fallback newtab page in earlier releases.
var overrideBrokenAgents = []*regexp.Regexp{
	regexp.MustCompile(`(?i)EDG/`),
	regexp.MustCompile(`(?i)OPERA|OPR/`),
}

func disableNewtabOverride(doc *models.SettingsDocument, env Env) error {
	matched := false
	for _, re := range overrideBrokenAgents {
		if re.MatchString(env.UserAgent) {
			matched = true
			break
		}
	}

	if matched && truthy(doc.Newtab["override"]) {
		doc.Newtab["override"] = false
	}
	return nil
}

func quoteFontFamily(doc *models.SettingsDocument, _ Env) error {
	styles, err := doc.Styles()
	if err != nil {
		return err
	}

	raw, ok := styles["fontFamily"]
	if !ok || raw == nil {
		return nil
	}

	font, ok := raw.(string)
	if !ok {
		return fmt.Errorf("fontFamily is %T, not a string", raw)
	}
	if font == "default" || isQuoted(font) {
		return nil
	}

	styles["fontFamily"] = "'" + font + "'"
	return nil
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")
}

// truthy mirrors loose boolean checks on stored option values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Default returns the palette used by the CLI.
func Default() *Palette { return styles }

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

// Status renders a check mark or a cross followed by label.
func (p *Palette) Status(ok bool, label string) string {
	if ok {
		return p.ok.Render("✓") + " " + label
	}
	return p.err.Render("✗") + " " + label
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

var transitionColors = map[string]lipgloss.Color{
	"fresh_install":          lipgloss.Color("#04B575"),
	"known_install":          lipgloss.Color("#626262"),
	"same_or_patch_update":   lipgloss.Color("#626262"),
	"minor_or_major_upgrade": lipgloss.Color("#7D56F4"),
}

// Transition renders a lifecycle transition name in its accent color.
func Transition(p Painter, name string) string {
	c, ok := transitionColors[name]
	if !ok {
		c = lipgloss.Color("#FFA500")
	}
	return p.As(name, c)
}

// Failure renders label as a badge on a red background.
func Failure(p Painter, label string) string {
	return p.On(" "+label+" ", lipgloss.Color("#FF0000"))
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

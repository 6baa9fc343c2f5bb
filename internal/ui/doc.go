// Package ui holds the [lipgloss] palette used to color CLI reports.
//
// Lifecycle outcomes, rule reports and collection listings are rendered as plain
// text by the formatter package; the CLI wraps status markers and headings with
// [Palette] so failed rules and sections stand out. Colors degrade to plain text
// when the output is not a terminal.
package ui

package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestPalette(t *testing.T) {
	p := Default()

	t.Run("renders text", func(t *testing.T) {
		assert.Contains(t, p.Title("Outcome"), "Outcome")
		assert.Contains(t, p.Warn("careful"), "careful")
		assert.Contains(t, p.Help("hint"), "hint")
		assert.Contains(t, p.As("x", lipgloss.Color("#fff")), "x")
		assert.Contains(t, p.On("y", lipgloss.Color("#000")), "y")
	})

	t.Run("status markers", func(t *testing.T) {
		assert.Contains(t, p.Status(true, "behaviour"), "✓")
		assert.Contains(t, p.Status(true, "behaviour"), "behaviour")
		assert.Contains(t, p.Status(false, "newtab"), "✗")
	})

	t.Run("transition accents", func(t *testing.T) {
		assert.Contains(t, Transition(p, "minor_or_major_upgrade"), "minor_or_major_upgrade")
		assert.Contains(t, Transition(p, "something_else"), "something_else")
		assert.Contains(t, Failure(p, "FAILED"), " FAILED ")
	})

	t.Run("implements Painter", func(t *testing.T) {
		var _ Painter = p
	})
}

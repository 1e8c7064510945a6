// Package render colorizes response text.
package render

import (
	"strings"

	"github.com/labstack/gommon/color"

	"upstream-probe/internal/config"
)

// Color modes accepted by NewPainter.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// Painter wraps text in ANSI color codes. It is read-only after
// construction and safe for concurrent use.
type Painter struct {
	c *color.Color
}

// NewPainter returns a Painter for the given mode. In auto mode colors are
// emitted only when stdout is a terminal.
func NewPainter(mode string) *Painter {
	c := color.New()
	switch strings.ToLower(mode) {
	case ModeAlways:
		c.Enable()
	case ModeNever:
		c.Disable()
	}
	return &Painter{c: c}
}

// NewPainterFromConfig builds a Painter from cfg.Color.Mode.
func NewPainterFromConfig(cfg *config.Config) *Painter {
	return NewPainter(cfg.Color.Mode)
}

// Success renders msg in green.
func (p *Painter) Success(msg string) string {
	return p.c.Green(msg)
}

// Failure renders msg in red.
func (p *Painter) Failure(msg string) string {
	return p.c.Red(msg)
}

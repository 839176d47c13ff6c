package main

import (
	"github.com/fatih/color"
)

// colorPrinter colours the replay trace and summary.
type colorPrinter struct {
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
	faint  *color.Color
}

// newColorPrinter creates a colorPrinter, with colour off when noColor is set.
func newColorPrinter(noColor bool) *colorPrinter {
	color.NoColor = noColor

	return &colorPrinter{
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
		faint:  color.New(color.Faint),
	}
}

// Red marks errors and failed runs.
func (c *colorPrinter) Red(s string) string { return c.red.Sprint(s) }

// Green marks a route that finished.
func (c *colorPrinter) Green(s string) string { return c.green.Sprint(s) }

// Yellow marks estimates and airborne ticks.
func (c *colorPrinter) Yellow(s string) string { return c.yellow.Sprint(s) }

// Cyan marks the scenario name.
func (c *colorPrinter) Cyan(s string) string { return c.cyan.Sprint(s) }

// Faint dims the tick clock.
func (c *colorPrinter) Faint(s string) string { return c.faint.Sprint(s) }

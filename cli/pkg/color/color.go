// Package color renders ANSI-colored terminal output. Set NoColor to
// strip escapes when piping or capturing output.
package color

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const reset = "\033[0m"

// Foreground colors.
const (
	FgRed    = 31
	FgGreen  = 32
	FgYellow = 33
	FgCyan   = 36
	FgWhite  = 37
)

// Attributes.
const (
	Bold = 1
	Dim  = 2
)

// NoColor disables escape sequences globally. The root command sets it
// for --no-color and when NO_COLOR is in the environment.
var NoColor = false

// Color is one reusable attribute combination.
type Color struct {
	params []int
}

// New creates a Color with the given attributes.
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

func (c *Color) sequence() string {
	if NoColor || len(c.params) == 0 {
		return ""
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = strconv.Itoa(p)
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}

func (c *Color) wrap(s string) string {
	seq := c.sequence()
	if seq == "" {
		return s
	}
	return seq + s + reset
}

// Printf prints formatted colored output to stdout.
func (c *Color) Printf(format string, a ...interface{}) {
	fmt.Print(c.wrap(fmt.Sprintf(format, a...)))
}

// Fprintf prints formatted colored output to w.
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

// Sprintf returns the formatted string wrapped in this color.
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}

// Package output is the CLI's terminal rendering layer.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lotwire-systems/lotwire-relay/cli/pkg/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
)

// Success reports a completed operation on stdout.
func Success(format string, a ...interface{}) {
	successColor.Printf("✓ "+format+"\n", a...)
}

// Error reports a failure on stderr.
func Error(format string, a ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

// Info prints an unadorned informational line.
func Info(format string, a ...interface{}) {
	infoColor.Printf(format+"\n", a...)
}

// Warn flags a non-fatal condition, such as a degraded classification.
func Warn(format string, a ...interface{}) {
	warnColor.Printf("⚠ "+format+"\n", a...)
}

// JSON writes v to stdout with two-space indentation.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table accumulates rows and renders them with aligned columns. Rows
// wider than the header set are truncated; narrower rows are fine.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// widths returns the printed width of each column, sized to the widest
// of the header and every cell beneath it.
func (t *Table) widths() []int {
	w := make([]int, len(t.headers))
	for i, h := range t.headers {
		w[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(w) {
				break
			}
			if len(cell) > w[i] {
				w[i] = len(cell)
			}
		}
	}
	return w
}

func (t *Table) Render() {
	widths := t.widths()

	header := color.New(color.FgWhite, color.Bold)
	for i, h := range t.headers {
		header.Printf("%-*s  ", widths[i], h)
	}
	fmt.Println()

	for _, w := range widths {
		fmt.Print(strings.Repeat("-", w) + "  ")
	}
	fmt.Println()

	for _, row := range t.rows {
		if len(row) > len(widths) {
			row = row[:len(widths)]
		}
		for i, cell := range row {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}

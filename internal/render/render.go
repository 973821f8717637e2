// Package render draws terminal tables and status lines for the CLI.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Table writes a titled table of rows to w.
func Table(w io.Writer, title string, columns []string, rows [][]string) {
	if title != "" {
		fmt.Fprintln(w, titleStyle.Render(title))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers(columns...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

// KV writes a two-column key/value table.
func KV(w io.Writer, title string, keys []string, values map[string]string) {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, values[k]})
	}
	Table(w, title, []string{"Key", "Value"}, rows)
}

func Info(w io.Writer, msg string)    { fmt.Fprintln(w, infoStyle.Render("i")+" "+msg) }
func Success(w io.Writer, msg string) { fmt.Fprintln(w, okStyle.Render("ok")+" "+msg) }
func Warn(w io.Writer, msg string)    { fmt.Fprintln(w, warnStyle.Render("!")+" "+msg) }

// Error renders err prominently; the REPL never crashes on one.
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error: ")+err.Error())
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxCellWidth = 40

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// table prints aligned columns. Widths are measured in terminal cells so
// names with wide or combining runes stay aligned.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(out io.Writer, useColor bool) {
	widths := make([]int, len(t.header))
	measure := func(cells []string) {
		for i, c := range cells {
			if i < len(widths) {
				widths[i] = max(widths[i], min(runewidth.StringWidth(c), maxCellWidth))
			}
		}
	}
	measure(t.header)
	for _, r := range t.rows {
		measure(r)
	}

	head := formatRow(t.header, widths)
	if useColor {
		head = headerStyle.Render(head)
	}
	fmt.Fprintln(out, head)
	for _, r := range t.rows {
		fmt.Fprintln(out, formatRow(r, widths))
	}
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = fitCell(cells[i], w)
		}
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == len(widths)-1 {
			sb.WriteString(cell)
			continue
		}
		sb.WriteString(runewidth.FillRight(cell, w))
	}
	return sb.String()
}

func fitCell(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

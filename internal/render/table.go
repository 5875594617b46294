// Package render draws the rounded-grid text tables the bot posts inside
// Discord code blocks.
package render

import (
	"strings"
	"unicode/utf8"
)

// Grid renders headers and rows as a rounded-grid table. Cells may contain
// newlines; a multi-line cell grows its row.
func Grid(headers []string, rows [][]string) string {
	cols := len(headers)
	widths := make([]int, cols)

	cellLines := func(row []string) [][]string {
		lines := make([][]string, cols)
		for c := 0; c < cols; c++ {
			value := ""
			if c < len(row) {
				value = row[c]
			}
			lines[c] = strings.Split(value, "\n")
		}
		return lines
	}

	measure := func(row []string) {
		for c, lines := range cellLines(row) {
			for _, line := range lines {
				if w := utf8.RuneCountInString(line); w > widths[c] {
					widths[c] = w
				}
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	border := func(left, mid, right string) {
		b.WriteString(left)
		for c, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if c < cols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		b.WriteString("\n")
	}

	writeRow := func(row []string) {
		lines := cellLines(row)
		height := 1
		for _, cell := range lines {
			if len(cell) > height {
				height = len(cell)
			}
		}
		for h := 0; h < height; h++ {
			b.WriteString("│")
			for c := 0; c < cols; c++ {
				line := ""
				if h < len(lines[c]) {
					line = lines[c][h]
				}
				pad := widths[c] - utf8.RuneCountInString(line)
				b.WriteString(" ")
				b.WriteString(line)
				b.WriteString(strings.Repeat(" ", pad+1))
				b.WriteString("│")
			}
			b.WriteString("\n")
		}
	}

	border("╭", "┬", "╮")
	writeRow(headers)
	for _, row := range rows {
		border("├", "┼", "┤")
		writeRow(row)
	}
	border("╰", "┴", "╯")
	return strings.TrimRight(b.String(), "\n")
}

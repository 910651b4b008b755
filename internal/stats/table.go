// Package stats computes and renders practice statistics.
package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableColumn describes one column of a plain-text table.
type tableColumn struct {
	Title string
	Right bool
}

// renderTable lays out rows under the column titles, padding every cell
// to the widest value in its column. Widths are measured in display
// cells so wide runes stay aligned.
func renderTable(cols []tableColumn, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}

	widths := make([]int, len(cols))
	titles := make([]string, len(cols))
	for i, col := range cols {
		widths[i] = displayWidth(col.Title)
		titles[i] = col.Title
	}
	for _, row := range rows {
		for i := range cols {
			if w := displayWidth(tableCell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderTableRow(cols, widths, titles))
	for _, row := range rows {
		lines = append(lines, renderTableRow(cols, widths, row))
	}
	return lines
}

func renderTableRow(cols []tableColumn, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cell := tableCell(row, i)
		if col.Right {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(cells, " ")
}

func tableCell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

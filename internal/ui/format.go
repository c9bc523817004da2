package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"empgrid/internal/grid"
)

const (
	markerW = 2
	minName = 16
	gutter  = 1
)

// fixedWidth is the preferred width for every column except name, which
// takes the remaining space.
func fixedWidth(c grid.Column) int {
	switch c {
	case grid.ColAge:
		return 5
	case grid.ColNickname:
		return 10
	case grid.ColIsEmployee:
		return 10
	case grid.ColActions:
		return 13
	default:
		return 0
	}
}

// columnWidths fits the visible columns into the terminal width.
func (m *Model) columnWidths(cols []grid.Column) map[grid.Column]int {
	widths := map[grid.Column]int{}
	width := m.termWidth
	if width <= 0 {
		width = 100
	}
	used := markerW
	for _, c := range cols {
		if c == grid.ColName {
			continue
		}
		widths[c] = fixedWidth(c)
		used += widths[c] + gutter
	}
	if _, ok := indexOf(cols, grid.ColName); ok {
		w := width - used - gutter
		if w < minName {
			w = minName
		}
		widths[grid.ColName] = w
	}
	return widths
}

func indexOf(cols []grid.Column, c grid.Column) (int, bool) {
	for i, x := range cols {
		if x == c {
			return i, true
		}
	}
	return -1, false
}

// fit truncates or pads s to exactly w display cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func sortArrow(d grid.Direction) string {
	switch d {
	case grid.Asc:
		return "↑"
	case grid.Desc:
		return "↓"
	default:
		return "↕"
	}
}

func ageText(age int) string { return strconv.Itoa(age) }

func joinCells(cells []string) string {
	return strings.Join(cells, strings.Repeat(" ", gutter))
}

package ui

import (
	"empgrid/internal/grid"
)

// refreshRows re-derives the visible rows and keeps the cursor on the same
// record when it is still visible.
func (m *Model) refreshRows() {
	curID := ""
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		curID = m.rows[m.cursor].ID
	}
	m.rows = m.grid.VisibleRows()
	if curID != "" {
		for i, r := range m.rows {
			if r.ID == curID {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
	m.ensureCursorVisible()
	m.win.Invalidate()
	m.bodyDirty = true
}

func (m *Model) bodyHeight() int {
	// title, header, inline line, status
	h := m.termHeight - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) maxScroll() int {
	s := len(m.rows)*m.cfg.RowHeight - m.bodyHeight()
	if s < 0 {
		return 0
	}
	return s
}

func (m *Model) clampScroll() {
	if m.scrollTop > m.maxScroll() {
		m.scrollTop = m.maxScroll()
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
}

// ensureCursorVisible scrolls the minimum needed to show the cursor row.
func (m *Model) ensureCursorVisible() {
	r := m.cfg.RowHeight
	top := m.cursor * r
	bottom := top + r
	if top < m.scrollTop {
		m.scrollTop = top
	}
	if bottom > m.scrollTop+m.bodyHeight() {
		m.scrollTop = bottom - m.bodyHeight()
	}
	m.clampScroll()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureCursorVisible()
	m.bodyDirty = true
}

// scrollBy moves the viewport and drags the cursor along so it stays visible.
func (m *Model) scrollBy(lines int) {
	m.scrollTop += lines
	m.clampScroll()
	r := m.cfg.RowHeight
	first := (m.scrollTop + r - 1) / r
	last := (m.scrollTop+m.bodyHeight())/r - 1
	if m.cursor < first {
		m.cursor = first
	}
	if last >= first && m.cursor > last {
		m.cursor = last
	}
	m.clampCursor()
	m.bodyDirty = true
}

func (m *Model) currentRowID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.cursor].ID, true
}

// dataColumns are the visible columns that can be selected for sort/stats.
func (m *Model) dataColumns() []grid.Column {
	out := []grid.Column{}
	for _, c := range m.grid.VisibleColumns() {
		if c != grid.ColActions {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model) selectedColumn() (grid.Column, bool) {
	cols := m.dataColumns()
	if len(cols) == 0 {
		return "", false
	}
	if m.selCol >= len(cols) {
		m.selCol = len(cols) - 1
	}
	if m.selCol < 0 {
		m.selCol = 0
	}
	return cols[m.selCol], true
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"empgrid/internal/grid"
	"empgrid/internal/model"
	"empgrid/internal/util/logx"
	"empgrid/internal/version"
)

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderHeader(),
		m.renderBody(),
		m.renderBottom(),
		m.styles.Status.Render(m.renderStatus()),
	)
	if m.modalActive {
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderTitle() string {
	return m.styles.Title.Render(fmt.Sprintf("%s  employees %d/%d", version.Name, len(m.rows), m.grid.Len()))
}

func (m *Model) renderHeader() string {
	cols := m.grid.VisibleColumns()
	widths := m.columnWidths(cols)
	sel, _ := m.selectedColumn()
	sortSpec := m.grid.Sort()
	cells := []string{strings.Repeat(" ", markerW-gutter)}
	for _, c := range cols {
		title := c.Title()
		if c == grid.ColActions {
			title = "Actions"
		}
		if c.Sortable() {
			dir := grid.None
			if sortSpec.Key == c {
				dir = sortSpec.Dir
			}
			title += " " + sortArrow(dir)
		}
		cell := fit(title, widths[c])
		if c == sel {
			cells = append(cells, m.styles.Grid.HeaderSelected.Render(cell))
		} else {
			cells = append(cells, m.styles.Grid.Header.Render(cell))
		}
	}
	return joinCells(cells)
}

// renderBody draws only the windowed rows. The previous body is reused when
// neither the window nor the rows changed.
func (m *Model) renderBody() string {
	h := m.bodyHeight()
	win, changed := m.win.Compute(len(m.rows), h, m.scrollTop)
	if !changed && !m.bodyDirty && m.body != "" {
		return m.body
	}
	lines := make([]string, h)
	for _, vr := range win.Rows {
		for j, line := range m.renderRow(vr.Index) {
			abs := vr.Offset + j
			if abs < m.scrollTop || abs >= m.scrollTop+h {
				continue
			}
			lines[abs-m.scrollTop] = line
		}
	}
	if len(m.rows) == 0 {
		lines[0] = m.styles.Faint.Render("  no matching rows")
	}
	m.body = strings.Join(lines, "\n")
	m.bodyDirty = false
	return m.body
}

// renderRow returns RowHeight lines for the row at idx: name and the other
// cells on the first line, job title below when rows are two lines tall.
func (m *Model) renderRow(idx int) []string {
	rec := m.rows[idx]
	editing := m.editID != "" && rec.ID == m.editID
	if editing {
		if staged, ok := m.grid.Staged(rec.ID); ok {
			rec = staged
		}
	}
	cols := m.grid.VisibleColumns()
	widths := m.columnWidths(cols)
	gs := m.styles.Grid

	marker := " "
	switch {
	case editing:
		marker = gs.Editing.Render("✎")
	case m.grid.IsSelected(rec.ID):
		marker = gs.Selected.Render("●")
	}
	if idx == m.cursor {
		sym := stripANSI(marker)
		if sym == " " {
			sym = "▸"
		}
		marker = gs.Cursor.Render(sym)
	}
	first := []string{marker}
	second := []string{strings.Repeat(" ", markerW-gutter)}
	for _, c := range cols {
		w := widths[c]
		var top, sub string
		switch c {
		case grid.ColName:
			if editing {
				top = m.inputCell(grid.FieldName, w)
				sub = m.inputCell(grid.FieldJobTitle, w)
			} else if m.cfg.RowHeight == 1 {
				top = fit(rec.NameAndJob(), w)
			} else {
				top = fit(rec.Name, w)
				sub = gs.SubLine.Render(fit(rec.JobTitle, w))
			}
		case grid.ColAge:
			if editing {
				top = m.inputCell(grid.FieldAge, w)
			} else {
				top = fit(ageText(rec.Age), w)
			}
		case grid.ColNickname:
			if editing {
				top = m.inputCell(grid.FieldNickname, w)
			} else {
				top = fit(rec.Nickname, w)
			}
		case grid.ColIsEmployee:
			box := checkbox(rec.IsEmployee)
			if editing {
				box = checkbox(m.editEmploy)
				if grid.EditFields[m.editFocus] == grid.FieldIsEmployee {
					box = gs.FocusedField.Render(box)
				}
			}
			top = padCell(box, w)
		case grid.ColActions:
			if editing {
				top = padCell(gs.ActionSave.Render("Save")+" | "+gs.ActionCancel.Render("Cancel"), w)
			} else {
				top = padCell(gs.ActionEdit.Render("Edit"), w)
			}
		}
		if sub == "" {
			sub = strings.Repeat(" ", w)
		}
		first = append(first, top)
		second = append(second, sub)
	}
	if m.cfg.RowHeight == 1 {
		return []string{joinCells(first)}
	}
	return []string{joinCells(first), joinCells(second)}
}

func (m *Model) inputCell(f grid.Field, w int) string {
	in, ok := m.editInputs[f]
	if !ok {
		return strings.Repeat(" ", w)
	}
	in.Width = w - 1
	return padCell(in.View(), w)
}

// padCell pads a styled string to w cells.
func padCell(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func (m *Model) renderBottom() string {
	var bottom string
	c := m.grid.Criteria()
	switch {
	case m.inlineMode == inlineSearch:
		bottom = fmt.Sprintf("Filter: %s    [enter]=keep [esc]=cancel", m.input.View())
	case m.inlineMode == inlineFilter:
		bottom = fmt.Sprintf("Expr: %s    [enter]=apply [esc]=cancel", m.input.View())
	case m.editID != "":
		bottom = fmt.Sprintf("Editing %s    [tab]=next field [space]=toggle employee [enter]=save [esc]=cancel", m.editID)
	case !c.Empty():
		parts := []string{}
		if c.Query != "" {
			parts = append(parts, fmt.Sprintf("text %q", c.Query))
		}
		if c.Expr != "" {
			parts = append(parts, "expr "+c.Expr)
		}
		bottom = "Filter: " + strings.Join(parts, ", ") + "    [F]=clear"
	}
	if bottom == "" {
		return strings.Repeat(" ", max(0, m.termWidth))
	}
	return bottom
}

func (m *Model) renderStatus() string {
	pos := 0
	if len(m.rows) > 0 {
		pos = m.cursor + 1
	}
	parts := []string{fmt.Sprintf("row:%d/%d", pos, len(m.rows))}
	if s := m.grid.Sort(); s.Dir != grid.None {
		parts = append(parts, fmt.Sprintf("sort:%s %s", s.Key, s.Dir))
	}
	if n := len(m.grid.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("selected:%d", n))
	}
	if m.ingestCancel != nil {
		parts = append(parts, fmt.Sprintf("ingested:%d", m.ingested))
	}
	if m.loader.Loading() {
		parts = append(parts, m.spin.View()+" loading more")
	}
	parts = append(parts, "[?]=help")
	if m.lastMsg != "" {
		parts = append(parts, m.lastMsg)
	}
	return strings.Join(parts, " | ")
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// keep the selection inside the viewport
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(0, lineIndexOfSel-1)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(0, lineIndexOfSel-m.modalVP.Height+2)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openStatsModal() {
	col, ok := m.selectedColumn()
	if !ok {
		return
	}
	m.modalActive = true
	m.modalKind = modalStats
	m.modalTitle = fmt.Sprintf("Stats: %s (%d rows)", col.Title(), len(m.rows))
	m.modalBody = buildStats(col, m.rows)
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	rec := m.rows[m.cursor]
	m.modalActive = true
	m.modalKind = modalInspector
	m.modalTitle = "Employee " + rec.ID
	m.modalBody = inspectBody(rec, m.grid.IsSelected(rec.ID))
	m.resizeModal()
}

func inspectBody(rec model.Employee, selected bool) string {
	return rec.PrettyJSON() + fmt.Sprintf("\n\nselected: %v", selected)
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

func (m *Model) resizeModal() {
	w := max(20, m.termWidth-6)
	h := max(5, m.termHeight-6)
	m.modalVP = viewport.New(w-4, h-4)
	if m.modalKind == modalHelp {
		m.modalVP.SetContent(m.renderHelp())
		return
	}
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalLogs:
		header := m.styles.Help.Render(fmt.Sprintf("records: %d  visible: %d  loading: %v  level: %s",
			m.grid.Len(), len(m.rows), m.loader.Loading(), logx.CurrentLevel()))
		content = header + "\n" + m.modalVP.View() + "\n[esc/enter]=close"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	}
	boxW := max(20, m.termWidth-6)
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

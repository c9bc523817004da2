package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"empgrid/internal/export"
	"empgrid/internal/grid"
	"empgrid/internal/util/logx"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom (loads more)", key: km.Bottom},
		{group: "Navigation", text: "Previous column", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navigation", text: "Next column", key: tea.Key{Type: tea.KeyRight}},

		{group: "Sort", text: "Cycle sort on column", key: km.Sort},
		{group: "Sort", text: "Clear sort", key: km.ClearSort},

		{group: "Filter", text: "Filter name and job title", key: km.Search},
		{group: "Filter", text: "Filter by expression", key: km.Filter},
		{group: "Filter", text: "Clear filters", key: km.ClearFilter},

		{group: "Columns", text: "Toggle name", key: km.ToggleName},
		{group: "Columns", text: "Toggle age", key: km.ToggleAge},
		{group: "Columns", text: "Toggle nickname", key: km.ToggleNick},
		{group: "Columns", text: "Toggle employee", key: km.ToggleEmploy},

		{group: "Rows", text: "Select row", key: km.Select},
		{group: "Rows", text: "Edit row", key: km.Edit},
		{group: "Rows", text: "Inspect row", key: km.Inspect},
		{group: "Rows", text: "Copy row", key: km.CopyRow},

		{group: "Views", text: "Stats for column", key: km.Stats},
		{group: "Views", text: "Application logs", key: km.AppLogs},

		{group: "Control", text: "Export visible rows", key: km.Export},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.clampScroll()
		m.ensureCursorVisible()
		m.win.Invalidate()
		m.bodyDirty = true
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.modalActive {
			var cmd tea.Cmd
			m.modalVP, cmd = m.modalVP.Update(msg)
			return m, cmd
		}
		switch msg.Type {
		case tea.MouseWheelUp:
			m.scrollBy(-3)
		case tea.MouseWheelDown:
			m.scrollBy(3)
		default:
			return m, nil
		}
		return m, m.maybeLoadMore()
	case batchLoadedMsg:
		m.applyBatch(msg)
		return m, nil
	case loadCanceledMsg:
		logx.Debugf("load-more: seq=%d canceled", msg.seq)
		if msg.seq == m.loadSeq {
			m.loader.Done()
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loader.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tickMsg:
		changed, open := m.drainIngest()
		if changed {
			m.refreshRows()
		}
		if !open {
			return m, nil
		}
		return m, tick()
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.dispose()
		return m, tea.Quit
	}
	if m.modalActive {
		return m.handleModalKey(msg)
	}
	if m.inlineMode != inlineNone {
		return m.handleInlineKey(msg)
	}
	if id, ok := m.currentRowID(); ok && m.editID != "" && id == m.editID {
		if next, cmd, handled := m.handleEditKey(msg); handled {
			return next, cmd
		}
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalKind == modalHelp {
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc, keyMatches(msg, m.keymap.Quit), keyMatches(msg, m.keymap.Help):
			m.modalActive = false
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || keyMatches(msg, m.keymap.Quit) {
		m.modalActive = false
		return m, nil
	}
	if msg.Type == tea.KeyRunes && msg.String() == "c" && m.modalKind != modalLogs {
		return m, copyCmd(stripANSI(m.modalBody))
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

// handleInlineKey drives the bottom-line input. The text filter applies on
// every keystroke; the expression filter applies on enter.
func (m *Model) handleInlineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.inlineMode == inlineFilter {
			expr := strings.TrimSpace(m.input.Value())
			if err := m.grid.SetExpr(expr); err != nil {
				m.lastMsg = err.Error()
				logx.Warnf("filter: %v", err)
				return m, nil
			}
			if expr != "" {
				logx.Infof("filter: expression %q", expr)
			}
			m.refreshRows()
		}
		m.closeInline()
		return m, nil
	case tea.KeyEsc:
		if m.inlineMode == inlineSearch {
			m.grid.SetFilter(m.prevQuery)
			m.refreshRows()
		}
		m.closeInline()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inlineMode == inlineSearch {
		m.grid.SetFilter(m.input.Value())
		m.refreshRows()
	}
	return m, cmd
}

func (m *Model) openInline(mode inlineMode, value string) tea.Cmd {
	m.inlineMode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	if mode == inlineSearch {
		m.prevQuery = value
	}
	return m.input.Focus()
}

func (m *Model) closeInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case msg.Type == tea.KeyUp:
		m.moveCursor(-1)
	case msg.Type == tea.KeyDown:
		m.moveCursor(1)
		return m, m.maybeLoadMore()
	case msg.Type == tea.KeyPgUp:
		m.moveCursor(-m.pageRows())
	case msg.Type == tea.KeyPgDown:
		m.moveCursor(m.pageRows())
		return m, m.maybeLoadMore()
	case keyMatches(msg, km.Top):
		m.moveCursor(-len(m.rows))
	case keyMatches(msg, km.Bottom):
		m.moveCursor(len(m.rows))
		return m, m.maybeLoadMore()
	case msg.Type == tea.KeyLeft:
		if m.selCol > 0 {
			m.selCol--
			m.bodyDirty = true
		}
	case msg.Type == tea.KeyRight:
		if m.selCol+1 < len(m.dataColumns()) {
			m.selCol++
			m.bodyDirty = true
		}
	case keyMatches(msg, km.Sort):
		m.cycleSort()
	case keyMatches(msg, km.ClearSort):
		m.grid.ClearSort()
		m.refreshRows()
	case keyMatches(msg, km.Search):
		return m, m.openInline(inlineSearch, m.grid.Criteria().Query)
	case keyMatches(msg, km.Filter):
		return m, m.openInline(inlineFilter, m.grid.Criteria().Expr)
	case keyMatches(msg, km.ClearFilter):
		m.grid.ClearFilters()
		m.refreshRows()
		m.lastMsg = "filters cleared"
	case keyMatches(msg, km.ToggleName):
		m.toggleColumn(grid.ColName)
	case keyMatches(msg, km.ToggleAge):
		m.toggleColumn(grid.ColAge)
	case keyMatches(msg, km.ToggleNick):
		m.toggleColumn(grid.ColNickname)
	case keyMatches(msg, km.ToggleEmploy):
		m.toggleColumn(grid.ColIsEmployee)
	case keyMatches(msg, km.Select):
		if id, ok := m.currentRowID(); ok {
			m.grid.ToggleSelected(id)
			m.bodyDirty = true
		}
	case keyMatches(msg, km.Edit):
		return m, m.startEdit()
	case keyMatches(msg, km.Inspect):
		m.openInspectorModal()
	case keyMatches(msg, km.CopyRow):
		if m.cursor < len(m.rows) {
			return m, copyCmd(m.rows[m.cursor].PrettyJSON())
		}
	case keyMatches(msg, km.Stats):
		m.openStatsModal()
	case keyMatches(msg, km.AppLogs):
		m.openAppLogsModal()
	case keyMatches(msg, km.Export):
		return m, m.exportCmd()
	case keyMatches(msg, km.Help):
		m.openHelpModal()
	case keyMatches(msg, km.Quit):
		m.dispose()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) pageRows() int {
	n := m.bodyHeight() / m.cfg.RowHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) cycleSort() {
	col, ok := m.selectedColumn()
	if !ok {
		return
	}
	if err := m.grid.CycleSort(col); err != nil {
		m.lastMsg = err.Error()
		return
	}
	m.refreshRows()
	s := m.grid.Sort()
	if s.Dir == grid.None {
		m.lastMsg = "sort cleared"
	} else {
		m.lastMsg = fmt.Sprintf("sorted by %s %s", s.Key, s.Dir)
	}
}

func (m *Model) toggleColumn(c grid.Column) {
	if err := m.grid.ToggleColumn(c); err != nil {
		m.lastMsg = err.Error()
		return
	}
	if m.selCol >= len(m.dataColumns()) {
		m.selCol = len(m.dataColumns()) - 1
	}
	if m.selCol < 0 {
		m.selCol = 0
	}
	m.bodyDirty = true
}

// startEdit puts the cursor row into edit mode and builds one input per
// text field from the staged record.
func (m *Model) startEdit() tea.Cmd {
	id, ok := m.currentRowID()
	if !ok {
		return nil
	}
	if err := m.grid.BeginEdit(id); err != nil {
		m.lastMsg = err.Error()
		return nil
	}
	rec, _ := m.grid.Staged(id)
	m.editID = id
	m.editFocus = 0
	m.editEmploy = rec.IsEmployee
	m.editInputs = map[grid.Field]*textinput.Model{}
	m.editInitial = map[grid.Field]string{}
	for _, f := range grid.EditFields {
		if f == grid.FieldIsEmployee {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 0
		in.SetValue(fieldValue(rec, f))
		m.editInputs[f] = &in
		// the input sanitizes tabs and newlines, so compare against what it shows
		m.editInitial[f] = in.Value()
	}
	m.lastMsg = "editing " + id
	m.bodyDirty = true
	m.moveEditFocus(0)
	return m.focusEditField()
}

// fieldColumn is the grid column that displays f.
func fieldColumn(f grid.Field) grid.Column {
	switch f {
	case grid.FieldName, grid.FieldJobTitle:
		return grid.ColName
	case grid.FieldAge:
		return grid.ColAge
	case grid.FieldNickname:
		return grid.ColNickname
	default:
		return grid.ColIsEmployee
	}
}

func (m *Model) editFieldVisible(f grid.Field) bool {
	return m.grid.ColumnVisible(fieldColumn(f))
}

// moveEditFocus steps the focus by step (0 keeps it if visible) skipping
// fields whose column is hidden. It reports false when none is visible.
func (m *Model) moveEditFocus(step int) bool {
	n := len(grid.EditFields)
	dir := step
	if dir == 0 {
		dir = 1
	}
	i := (m.editFocus + step + n) % n
	for tries := 0; tries < n; tries++ {
		if m.editFieldVisible(grid.EditFields[i]) {
			m.editFocus = i
			return true
		}
		i = (i + dir + n) % n
	}
	return false
}

func (m *Model) focusEditField() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range grid.EditFields {
		in, ok := m.editInputs[f]
		if !ok {
			continue
		}
		if i == m.editFocus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	m.bodyDirty = true
	return cmd
}

// handleEditKey returns handled=false for keys that fall through to normal
// navigation (row movement) while a row is in edit mode.
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	km := m.keymap
	switch {
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown, msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		return m, nil, false
	case keyMatches(msg, km.Cancel):
		if err := m.grid.CancelEdit(m.editID); err != nil {
			m.lastMsg = err.Error()
		} else {
			m.lastMsg = "edit canceled"
		}
		m.endEdit()
		return m, nil, true
	case keyMatches(msg, km.Save):
		m.saveEdit()
		return m, nil, true
	case keyMatches(msg, km.NextField):
		m.moveEditFocus(1)
		return m, m.focusEditField(), true
	case keyMatches(msg, km.PrevField):
		m.moveEditFocus(-1)
		return m, m.focusEditField(), true
	}
	if !m.editFieldVisible(grid.EditFields[m.editFocus]) {
		if !m.moveEditFocus(0) {
			return m, nil, true
		}
		m.focusEditField()
	}
	f := grid.EditFields[m.editFocus]
	if f == grid.FieldIsEmployee {
		if keyMatches(msg, km.Select) {
			m.editEmploy = !m.editEmploy
			if err := m.grid.UpdateField(m.editID, f, strconv.FormatBool(m.editEmploy)); err != nil {
				m.lastMsg = err.Error()
			}
			m.bodyDirty = true
		}
		return m, nil, true
	}
	in := m.editInputs[f]
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() == before {
		return m, cmd, true
	}
	if err := m.grid.UpdateField(m.editID, f, in.Value()); err != nil {
		m.lastMsg = err.Error()
	} else {
		m.lastMsg = "editing " + m.editID
	}
	m.bodyDirty = true
	return m, cmd, true
}

// saveEdit stages every input the user changed once more and commits. A
// field that does not validate keeps the row in edit mode.
func (m *Model) saveEdit() {
	for _, f := range grid.EditFields {
		in, ok := m.editInputs[f]
		if !ok || in.Value() == m.editInitial[f] {
			continue
		}
		if err := m.grid.UpdateField(m.editID, f, in.Value()); err != nil {
			m.lastMsg = err.Error()
			if errors.Is(err, grid.ErrInvalidAge) {
				for i, ef := range grid.EditFields {
					if ef == f {
						m.editFocus = i
					}
				}
				m.focusEditField()
			}
			return
		}
	}
	rec, err := m.grid.CommitEdit(m.editID)
	if err != nil {
		m.lastMsg = err.Error()
		return
	}
	m.lastMsg = "saved " + rec.ID
	m.endEdit()
}

func (m *Model) endEdit() {
	m.editID = ""
	m.editInputs = nil
	m.editInitial = nil
	m.editFocus = 0
	m.refreshRows()
}

func copyCmd(s string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(s); err != nil {
			logx.Warnf("clipboard: %v", err)
			return toastMsg{text: "copy failed: " + err.Error()}
		}
		return toastMsg{text: "copied to clipboard"}
	}
}

// exportCmd writes the visible rows in the background. The slice is copied
// so later appends or sorts do not race the writer.
func (m *Model) exportCmd() tea.Cmd {
	if m.cfg.ExportFormat == "" || m.cfg.ExportOut == "" {
		m.lastMsg = "use -export and -out to export"
		logx.Warnf("export: missing -export/-out flags")
		return nil
	}
	recs := append(m.rows[:0:0], m.rows...)
	format, out := m.cfg.ExportFormat, m.cfg.ExportOut
	return func() tea.Msg {
		if err := export.ToFile(out, format, recs); err != nil {
			logx.Errorf("export: %v", err)
			return toastMsg{text: "export failed: " + err.Error()}
		}
		logx.Infof("export: wrote %d rows to %s (%s)", len(recs), out, format)
		return toastMsg{text: fmt.Sprintf("exported %d rows to %s (%s)", len(recs), out, format)}
	}
}

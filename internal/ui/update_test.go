package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"empgrid/internal/config"
	"empgrid/internal/grid"
	"empgrid/internal/model"
	"empgrid/internal/source"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	seed, err := source.Seed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return newTestModelWithSeed(t, seed)
}

func newTestModelWithSeed(t *testing.T, seed []model.Employee) *Model {
	t.Helper()
	cfg := config.Default()
	m, err := initialModel(context.Background(), cfg, seed, source.New(1))
	if err != nil {
		t.Fatalf("initial model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

func TestInitialRows(t *testing.T) {
	m := newTestModel(t)
	if got, want := len(m.rows), 3+m.cfg.InitialCount; got != want {
		t.Fatalf("rows: got %d want %d", got, want)
	}
	if m.rows[0].ID != "1" || m.rows[3].ID != "4" {
		t.Fatalf("insertion order: %s %s", m.rows[0].ID, m.rows[3].ID)
	}
}

func TestBottomTriggersLoadMore(t *testing.T) {
	m := newTestModel(t)
	before := len(m.rows)
	_, cmd := m.Update(runes("G"))
	if cmd == nil || !m.loader.Loading() {
		t.Fatalf("expected a load to start")
	}
	seq := m.loadSeq
	// further scrolling while loading must not start another load
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.loadSeq != seq {
		t.Fatalf("second load started while loading")
	}
	m.Update(batchLoadedMsg{seq: seq, count: m.cfg.BatchSize})
	if got := len(m.rows); got != before+m.cfg.BatchSize {
		t.Fatalf("rows after load: got %d want %d", got, before+m.cfg.BatchSize)
	}
	if m.loader.Loading() {
		t.Fatalf("loading should be cleared")
	}
	if last := m.rows[len(m.rows)-1].ID; last != "83" {
		t.Fatalf("last id: %s", last)
	}
}

func TestStaleAndCanceledLoads(t *testing.T) {
	m := newTestModel(t)
	before := len(m.rows)
	m.Update(runes("G"))
	seq := m.loadSeq
	m.Update(batchLoadedMsg{seq: seq - 1, count: 10})
	if len(m.rows) != before || !m.loader.Loading() {
		t.Fatalf("stale batch applied")
	}
	m.Update(loadCanceledMsg{seq: seq})
	if m.loader.Loading() {
		t.Fatalf("cancel should clear loading")
	}
	m.Update(batchLoadedMsg{seq: seq, count: 10})
	if len(m.rows) != before {
		t.Fatalf("batch after cancel appended %d rows", len(m.rows)-before)
	}
}

func TestEditSave(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("e"))
	if m.editID != "1" {
		t.Fatalf("edit id: %q", m.editID)
	}
	typeText(m, "X")
	if live, _ := m.grid.Store().Get("1"); live.Name != "Jane Cooper" {
		t.Fatalf("live record changed before save: %q", live.Name)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editID != "" {
		t.Fatalf("still editing after save")
	}
	if live, _ := m.grid.Store().Get("1"); live.Name != "Jane CooperX" {
		t.Fatalf("saved name: %q", live.Name)
	}
}

func TestEditCancel(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("e"))
	typeText(m, "Y")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editID != "" || m.grid.HasShadow("1") {
		t.Fatalf("cancel left edit state behind")
	}
	if live, _ := m.grid.Store().Get("1"); live.Name != "Jane Cooper" {
		t.Fatalf("cancel changed record: %q", live.Name)
	}
}

func TestEditInvalidAgeBlocksSave(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "a")
	if !strings.Contains(m.lastMsg, grid.ErrInvalidAge.Error()) {
		t.Fatalf("status: %q", m.lastMsg)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editID != "1" {
		t.Fatalf("invalid age should keep the row in edit mode")
	}
	if live, _ := m.grid.Store().Get("1"); live.Age != 34 {
		t.Fatalf("age changed: %d", live.Age)
	}
}

func TestEditToggleEmployee(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(runes(" "))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if live, _ := m.grid.Store().Get("1"); live.IsEmployee {
		t.Fatalf("employee flag not toggled")
	}
}

func TestTextFilterLiveAndEscRestores(t *testing.T) {
	m := newTestModel(t)
	total := len(m.rows)
	m.Update(runes("/"))
	typeText(m, "paradigm")
	if len(m.rows) != 1 || m.rows[0].ID != "1" {
		t.Fatalf("filter rows: %d", len(m.rows))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.rows) != total || m.grid.Criteria().Query != "" {
		t.Fatalf("esc should restore the previous filter")
	}
	m.Update(runes("/"))
	typeText(m, "HOWARD")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 1 || m.inlineMode != inlineNone {
		t.Fatalf("enter should keep the filter: rows=%d", len(m.rows))
	}
}

func TestExpressionFilter(t *testing.T) {
	m := newTestModel(t)
	total := len(m.rows)
	m.Update(runes("f"))
	typeText(m, "age > 100")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(m.rows))
	}
	if !strings.Contains(m.View(), "no matching rows") {
		t.Fatalf("empty view missing placeholder")
	}
	m.Update(runes("F"))
	if len(m.rows) != total {
		t.Fatalf("clear filters: %d", len(m.rows))
	}

	m.Update(runes("f"))
	typeText(m, "age >")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.inlineMode != inlineFilter || m.lastMsg == "" {
		t.Fatalf("bad expression should keep the input open with an error")
	}
}

func TestSortCycleOnSelectedColumn(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(runes("s"))
	if s := m.grid.Sort(); s.Key != grid.ColAge || s.Dir != grid.Asc {
		t.Fatalf("sort: %+v", s)
	}
	for i := 1; i < len(m.rows); i++ {
		if m.rows[i-1].Age > m.rows[i].Age {
			t.Fatalf("rows not ascending at %d", i)
		}
	}
	m.Update(runes("s"))
	m.Update(runes("s"))
	if m.grid.Sort().Dir != grid.None || m.rows[0].ID != "1" {
		t.Fatalf("third press should restore insertion order")
	}
}

func TestNicknameNotSortable(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(runes("s"))
	if m.grid.Sort().Dir != grid.None || m.lastMsg == "" {
		t.Fatalf("nickname sort should be refused")
	}
}

func TestToggleColumnHidesHeader(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.renderHeader(), "Nickname") {
		t.Fatalf("nickname header missing")
	}
	m.Update(runes("3"))
	if strings.Contains(m.renderHeader(), "Nickname") {
		t.Fatalf("nickname header still shown")
	}
	if len(m.rows) != 53 {
		t.Fatalf("column visibility changed rows")
	}
}

func TestBodyRendersViewportHeight(t *testing.T) {
	m := newTestModel(t)
	body := m.renderBody()
	if got := len(strings.Split(body, "\n")); got != m.bodyHeight() {
		t.Fatalf("body lines: got %d want %d", got, m.bodyHeight())
	}
	if !strings.Contains(body, "Jane Cooper") || !strings.Contains(body, "Regional Paradigm") {
		t.Fatalf("first row missing from body")
	}
}

func TestSelectRow(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes(" "))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(runes(" "))
	if got := m.grid.Selected(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("selected: %v", got)
	}
}

func TestQuitDisposesLoad(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("G"))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.loader.Loading() {
		t.Fatalf("quit should dispose the pending load")
	}
}

func TestLoadMoreOnlyOnScrollWithEmptyFilter(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("/"))
	typeText(m, "zzz")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.loader.Loading() {
		t.Fatalf("applying a filter must not start a load")
	}
	if len(m.rows) != 0 {
		t.Fatalf("rows: %d", len(m.rows))
	}
	m.Update(runes("G"))
	if !m.loader.Loading() {
		t.Fatalf("scrolling an empty view should load")
	}
	seq, total := m.loadSeq, m.grid.Len()
	for i := 0; i < 5; i++ {
		_, cmd = m.Update(batchLoadedMsg{seq: m.loadSeq, count: m.cfg.BatchSize})
		if cmd != nil {
			t.Fatalf("batch completion requested another load")
		}
	}
	if m.loadSeq != seq || m.loader.Loading() {
		t.Fatalf("loads kept going: seq %d -> %d loading=%v", seq, m.loadSeq, m.loader.Loading())
	}
	if got := m.grid.Len(); got != total+m.cfg.BatchSize {
		t.Fatalf("collection grew by %d, want %d", got-total, m.cfg.BatchSize)
	}
	m.Update(runes("F"))
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 200})
	if m.loader.Loading() {
		t.Fatalf("clear or resize must not start a load")
	}
}

func TestEditSaveWithoutChangesKeepsRecord(t *testing.T) {
	orig := model.Employee{
		ID:         "1",
		Name:       "Jane\tCooper",
		JobTitle:   strings.Repeat("Regional Paradigm Technician ", 3) + "of Everything",
		Age:        34,
		Nickname:   "Janie",
		IsEmployee: true,
	}
	m := newTestModelWithSeed(t, []model.Employee{orig})
	m.Update(runes("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editID != "" {
		t.Fatalf("still editing")
	}
	if live, _ := m.grid.Store().Get("1"); live != orig {
		t.Fatalf("record changed:\n got %+v\nwant %+v", live, orig)
	}
}

func TestEditFocusSkipsHiddenColumns(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("1"))
	m.Update(runes("e"))
	if f := grid.EditFields[m.editFocus]; f != grid.FieldAge {
		t.Fatalf("initial focus: %s", f)
	}
	for i := 0; i < len(grid.EditFields)*2; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if f := grid.EditFields[m.editFocus]; f == grid.FieldName || f == grid.FieldJobTitle {
			t.Fatalf("focused hidden field %s", f)
		}
	}
	typeText(m, "Q")
	if rec, _ := m.grid.Staged("1"); rec.Name != "Jane Cooper" || rec.JobTitle != "Regional Paradigm Technician" {
		t.Fatalf("hidden field edited: %+v", rec)
	}
}

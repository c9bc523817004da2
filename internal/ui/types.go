package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"empgrid/internal/config"
	"empgrid/internal/grid"
	"empgrid/internal/ingest"
	"empgrid/internal/model"
	"empgrid/internal/source"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalStats
	modalLogs
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineFilter
)

type Model struct {
	ctx context.Context
	cfg *config.Config

	// Data
	grid   *grid.Grid
	src    *source.Source
	rows   []model.Employee
	loader *grid.LoadMore
	// loadSeq identifies the newest load; older completions are dropped
	loadSeq int

	// Ingest (optional -file/-stdin stream)
	ingestCancel context.CancelFunc
	records      <-chan ingest.Record
	errs         <-chan error
	ingested     int

	// Viewport
	win        grid.Windower
	cursor     int
	scrollTop  int
	selCol     int // index into dataColumns()
	termWidth  int
	termHeight int
	body       string
	bodyDirty  bool

	// UI
	styles Styles
	keymap KeyMap
	input  textinput.Model
	spin   spinner.Model

	inlineMode inlineMode
	prevQuery  string

	// Edit
	editID      string
	editInputs  map[grid.Field]*textinput.Model
	editInitial map[grid.Field]string
	editFocus   int
	editEmploy  bool

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	lastMsg string
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type batchLoadedMsg struct {
	seq   int
	count int
}

type loadCanceledMsg struct{ seq int }

type tickMsg struct{}

type toastMsg struct{ text string }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}

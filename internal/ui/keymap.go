package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Top          tea.Key
	Bottom       tea.Key
	Sort         tea.Key
	ClearSort    tea.Key
	Search       tea.Key
	Filter       tea.Key
	ClearFilter  tea.Key
	Select       tea.Key
	Edit         tea.Key
	Save         tea.Key
	Cancel       tea.Key
	NextField    tea.Key
	PrevField    tea.Key
	CopyRow      tea.Key
	Stats        tea.Key
	Export       tea.Key
	Inspect      tea.Key
	AppLogs      tea.Key
	Help         tea.Key
	Quit         tea.Key
	ToggleName   tea.Key
	ToggleAge    tea.Key
	ToggleNick   tea.Key
	ToggleEmploy tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Top:          tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Sort:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		ClearSort:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		Search:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Filter:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Select:       tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		Edit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Save:         tea.Key{Type: tea.KeyEnter},
		Cancel:       tea.Key{Type: tea.KeyEsc},
		NextField:    tea.Key{Type: tea.KeyTab},
		PrevField:    tea.Key{Type: tea.KeyShiftTab},
		CopyRow:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'y'}},
		Stats:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Export:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		Inspect:      tea.Key{Type: tea.KeyEnter},
		AppLogs:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		ToggleName:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}},
		ToggleAge:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'2'}},
		ToggleNick:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'3'}},
		ToggleEmploy: tea.Key{Type: tea.KeyRunes, Runes: []rune{'4'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) == 1 && k.Runes[0] == ' ' && msg.Type == tea.KeySpace {
		return true
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}

package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base       lipgloss.Style
	Title      lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Faint      lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
	Error      lipgloss.Style
	Grid       GridStyles
}

type GridStyles struct {
	Header         lipgloss.Style
	HeaderSelected lipgloss.Style
	Cursor         lipgloss.Style
	Selected       lipgloss.Style
	Editing        lipgloss.Style
	SubLine        lipgloss.Style
	ActionEdit     lipgloss.Style
	ActionSave     lipgloss.Style
	ActionCancel   lipgloss.Style
	FocusedField   lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Grid.Header = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("238"))
		s.Grid.SubLine = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Grid.Header = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("252"))
		s.Grid.SubLine = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	s.Faint = lipgloss.NewStyle().Faint(true)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	s.Grid.HeaderSelected = s.Grid.Header.Copy().Underline(true)
	s.Grid.Cursor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	s.Grid.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	s.Grid.Editing = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	s.Grid.ActionEdit = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	s.Grid.ActionSave = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	s.Grid.ActionCancel = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	s.Grid.FocusedField = lipgloss.NewStyle().Underline(true)
	return s
}

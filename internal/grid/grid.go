// Package grid holds the presentation state of the employee grid: the
// backing collection, the derived sorted and filtered view, column
// visibility, row selection and the edit session. It has no UI dependency.
package grid

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"empgrid/internal/filter"
	"empgrid/internal/model"
)

var (
	ErrNotSortable    = errors.New("column is not sortable")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrUnknownField   = errors.New("unknown field")
	ErrNotEditing     = errors.New("row is not being edited")
	ErrEditInProgress = errors.New("another row is being edited")
	ErrInvalidAge     = errors.New("age must be an integer")
)

type Column string

const (
	ColName       Column = "name"
	ColAge        Column = "age"
	ColNickname   Column = "nickname"
	ColIsEmployee Column = "isEmployee"
	ColActions    Column = "actions"
)

// Columns lists every column in display order.
var Columns = []Column{ColName, ColAge, ColNickname, ColIsEmployee, ColActions}

func (c Column) Title() string {
	switch c {
	case ColName:
		return "Name (job title)"
	case ColAge:
		return "Age"
	case ColNickname:
		return "Nickname"
	case ColIsEmployee:
		return "Employee"
	default:
		return ""
	}
}

func (c Column) Sortable() bool {
	return c == ColName || c == ColAge || c == ColIsEmployee
}

func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownColumn)
}

type Direction int

const (
	None Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return "none"
	}
}

type SortSpec struct {
	Key Column
	Dir Direction
}

// EditPolicy decides what BeginEdit does when another row is being edited.
type EditPolicy int

const (
	// DiscardOnSwitch drops the other row's staged changes.
	DiscardOnSwitch EditPolicy = iota
	// StrictEdit refuses until the other row is saved or cancelled.
	StrictEdit
)

type Options struct {
	EditPolicy EditPolicy
}

// Grid is owned by a single goroutine (the UI update loop).
type Grid struct {
	store *model.Collection
	opts  Options

	sort     SortSpec
	criteria filter.Criteria
	eval     *filter.Evaluator

	hidden   map[Column]bool
	selected map[string]bool

	editing string
	shadow  map[string]model.Employee

	// derived view cache
	rows  []model.Employee
	dirty bool
}

func New(store *model.Collection, opts Options) *Grid {
	ev, _ := filter.NewEvaluator(filter.Criteria{})
	return &Grid{
		store:    store,
		opts:     opts,
		eval:     ev,
		hidden:   map[Column]bool{},
		selected: map[string]bool{},
		shadow:   map[string]model.Employee{},
		dirty:    true,
	}
}

func (g *Grid) Store() *model.Collection { return g.store }

// Append adds records to the end of the collection.
func (g *Grid) Append(recs ...model.Employee) error {
	if err := g.store.Append(recs...); err != nil {
		return err
	}
	g.dirty = true
	return nil
}

// Len is the size of the backing collection, ignoring the filter.
func (g *Grid) Len() int { return g.store.Len() }

func (g *Grid) Sort() SortSpec { return g.sort }

func (g *Grid) SetSort(key Column, dir Direction) error {
	if dir == None {
		g.ClearSort()
		return nil
	}
	if !key.Sortable() {
		return fmt.Errorf("sort %s: %w", key, ErrNotSortable)
	}
	g.sort = SortSpec{Key: key, Dir: dir}
	g.dirty = true
	return nil
}

func (g *Grid) ClearSort() {
	g.sort = SortSpec{}
	g.dirty = true
}

// CycleSort steps key through asc, desc and back to insertion order.
// Switching to a different key starts at asc.
func (g *Grid) CycleSort(key Column) error {
	next := Asc
	if g.sort.Key == key {
		switch g.sort.Dir {
		case Asc:
			next = Desc
		case Desc:
			next = None
		}
	}
	return g.SetSort(key, next)
}

func (g *Grid) Criteria() filter.Criteria { return g.criteria }

func (g *Grid) SetFilter(text string) {
	c := g.criteria
	c.Query = text
	// the expression part was already validated by SetExpr
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		return
	}
	g.criteria, g.eval = c, ev
	g.dirty = true
}

// SetExpr installs a boolean expression filter. On a parse error the previous
// expression stays active.
func (g *Grid) SetExpr(expr string) error {
	c := g.criteria
	c.Expr = expr
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		return fmt.Errorf("filter expression: %w", err)
	}
	g.criteria, g.eval = c, ev
	g.dirty = true
	return nil
}

func (g *Grid) ClearFilters() {
	g.criteria = filter.Criteria{}
	g.eval, _ = filter.NewEvaluator(g.criteria)
	g.dirty = true
}

// VisibleRows returns the filtered, then stably sorted, records. The slice is
// shared until the next change and must not be modified.
func (g *Grid) VisibleRows() []model.Employee {
	if !g.dirty {
		return g.rows
	}
	all := g.store.Snapshot()
	rows := all[:0]
	for _, r := range all {
		if g.eval.Match(r) {
			rows = append(rows, r)
		}
	}
	if g.sort.Dir != None {
		less := lessFor(g.sort.Key)
		if g.sort.Dir == Desc {
			asc := less
			less = func(a, b model.Employee) bool { return asc(b, a) }
		}
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	}
	g.rows = rows
	g.dirty = false
	return g.rows
}

func lessFor(key Column) func(a, b model.Employee) bool {
	switch key {
	case ColAge:
		return func(a, b model.Employee) bool { return a.Age < b.Age }
	case ColIsEmployee:
		return func(a, b model.Employee) bool { return !a.IsEmployee && b.IsEmployee }
	default:
		return func(a, b model.Employee) bool { return a.NameAndJob() < b.NameAndJob() }
	}
}

// ToggleColumn flips a column's visibility. The actions column stays visible.
func (g *Grid) ToggleColumn(c Column) error {
	if _, err := ParseColumn(string(c)); err != nil {
		return err
	}
	if c == ColActions {
		return nil
	}
	g.hidden[c] = !g.hidden[c]
	return nil
}

func (g *Grid) ColumnVisible(c Column) bool { return !g.hidden[c] }

func (g *Grid) VisibleColumns() []Column {
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if !g.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) ToggleSelected(id string) {
	if g.selected[id] {
		delete(g.selected, id)
		return
	}
	g.selected[id] = true
}

func (g *Grid) IsSelected(id string) bool { return g.selected[id] }

func (g *Grid) Selected() []string {
	out := make([]string, 0, len(g.selected))
	for id := range g.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

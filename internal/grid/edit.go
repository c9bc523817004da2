package grid

import (
	"fmt"
	"strconv"
	"strings"

	"empgrid/internal/model"
	"empgrid/internal/util/logx"
)

type Field int

const (
	FieldName Field = iota
	FieldJobTitle
	FieldAge
	FieldNickname
	FieldIsEmployee
)

// EditFields lists the editable fields in tab order.
var EditFields = []Field{FieldName, FieldJobTitle, FieldAge, FieldNickname, FieldIsEmployee}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldJobTitle:
		return "jobTitle"
	case FieldAge:
		return "age"
	case FieldNickname:
		return "nickname"
	case FieldIsEmployee:
		return "isEmployee"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Editing reports the row in edit mode, if any.
func (g *Grid) Editing() (string, bool) {
	return g.editing, g.editing != ""
}

// BeginEdit puts id into edit mode. Under DiscardOnSwitch, a different row
// already being edited loses its staged changes.
func (g *Grid) BeginEdit(id string) error {
	if _, ok := g.store.Get(id); !ok {
		return fmt.Errorf("edit %q: %w", id, model.ErrUnknownID)
	}
	if g.editing == id {
		return nil
	}
	if g.editing != "" {
		if g.opts.EditPolicy == StrictEdit {
			return fmt.Errorf("edit %q while editing %q: %w", id, g.editing, ErrEditInProgress)
		}
		if _, staged := g.shadow[g.editing]; staged {
			logx.Warnf("edit: discarding unsaved changes for %s", g.editing)
		}
		delete(g.shadow, g.editing)
	}
	g.editing = id
	return nil
}

// UpdateField stages value for field on the row being edited. The staged copy
// is taken from the live record on first use.
func (g *Grid) UpdateField(id string, f Field, value string) error {
	if g.editing != id || id == "" {
		return fmt.Errorf("update %q: %w", id, ErrNotEditing)
	}
	rec, ok := g.shadow[id]
	if !ok {
		live, found := g.store.Get(id)
		if !found {
			return fmt.Errorf("update %q: %w", id, model.ErrUnknownID)
		}
		rec = live
	}
	switch f {
	case FieldName:
		rec.Name = value
	case FieldJobTitle:
		rec.JobTitle = value
	case FieldAge:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("update %q age=%q: %w", id, value, ErrInvalidAge)
		}
		rec.Age = n
	case FieldNickname:
		rec.Nickname = value
	case FieldIsEmployee:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("update %q isEmployee=%q: %w", id, value, err)
		}
		rec.IsEmployee = b
	default:
		return fmt.Errorf("update %q: %w", id, ErrUnknownField)
	}
	g.shadow[id] = rec
	return nil
}

// Staged returns the shadow copy for id, or the live record when nothing is
// staged.
func (g *Grid) Staged(id string) (model.Employee, bool) {
	if rec, ok := g.shadow[id]; ok {
		return rec, true
	}
	return g.store.Get(id)
}

func (g *Grid) HasShadow(id string) bool {
	_, ok := g.shadow[id]
	return ok
}

// CommitEdit writes the staged copy into the collection and leaves edit mode.
func (g *Grid) CommitEdit(id string) (model.Employee, error) {
	if g.editing != id || id == "" {
		return model.Employee{}, fmt.Errorf("commit %q: %w", id, ErrNotEditing)
	}
	rec, staged := g.shadow[id]
	if staged {
		if err := g.store.Replace(rec); err != nil {
			return model.Employee{}, err
		}
		g.dirty = true
	} else {
		rec, _ = g.store.Get(id)
	}
	delete(g.shadow, id)
	g.editing = ""
	logx.Infof("edit: saved %s name=%q jobTitle=%q age=%d nickname=%q isEmployee=%v", rec.ID, rec.Name, rec.JobTitle, rec.Age, rec.Nickname, rec.IsEmployee)
	return rec, nil
}

// CancelEdit drops the staged copy and leaves edit mode.
func (g *Grid) CancelEdit(id string) error {
	if g.editing != id || id == "" {
		return fmt.Errorf("cancel %q: %w", id, ErrNotEditing)
	}
	delete(g.shadow, id)
	g.editing = ""
	return nil
}

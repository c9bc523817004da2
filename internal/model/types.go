package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrDuplicateID is returned when a record would share its identifier with
// one already in the collection.
var ErrDuplicateID = errors.New("duplicate record id")

// ErrUnknownID is returned when no record carries the requested identifier.
var ErrUnknownID = errors.New("unknown record id")

type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	JobTitle   string `json:"jobTitle"`
	Age        int    `json:"age"`
	Nickname   string `json:"nickname"`
	IsEmployee bool   `json:"isEmployee"`
}

// NameAndJob is the combined accessor used by the name column for display,
// filtering and sorting.
func (e Employee) NameAndJob() string {
	return e.Name + " " + e.JobTitle
}

// Params exposes the record's fields by their JSON names.
func (e Employee) Params() map[string]any {
	return map[string]any{
		"id":         e.ID,
		"name":       e.Name,
		"jobTitle":   e.JobTitle,
		"age":        float64(e.Age),
		"nickname":   e.Nickname,
		"isEmployee": e.IsEmployee,
	}
}

func (e Employee) PrettyJSON() string {
	b, _ := json.MarshalIndent(e, "", "  ")
	return string(b)
}

// Collection is the append-only, insertion-ordered store of records.
type Collection struct {
	mu    sync.RWMutex
	items []Employee
	index map[string]int
	maxID int
}

func NewCollection() *Collection {
	return &Collection{index: map[string]int{}}
}

// Append adds records at the end. The batch is rejected as a whole when any
// identifier collides with the collection or with another record in the batch.
func (c *Collection) Append(recs ...Employee) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if _, ok := c.index[r.ID]; ok {
			return fmt.Errorf("append %q: %w", r.ID, ErrDuplicateID)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("append %q: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	for _, r := range recs {
		c.index[r.ID] = len(c.items)
		c.items = append(c.items, r)
		if n, err := strconv.Atoi(r.ID); err == nil && n > c.maxID {
			c.maxID = n
		}
	}
	return nil
}

// Replace swaps the stored record that has rec.ID, keeping its position.
func (c *Collection) Replace(rec Employee) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[rec.ID]
	if !ok {
		return fmt.Errorf("replace %q: %w", rec.ID, ErrUnknownID)
	}
	c.items[i] = rec
	return nil
}

func (c *Collection) Get(id string) (Employee, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return Employee{}, false
	}
	return c.items[i], true
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// NextID is the first identifier a synthesized batch may start from without
// colliding with numeric identifiers already stored.
func (c *Collection) NextID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.maxID > len(c.items) {
		return c.maxID + 1
	}
	return len(c.items) + 1
}

// Snapshot returns a copy of all records in insertion order.
func (c *Collection) Snapshot() []Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Employee, len(c.items))
	copy(out, c.items)
	return out
}

// Package labels maps class label names to the small integers stored in entries.
package labels

import (
	"fmt"
	"sync"

	"github.com/hupe1980/lvqgo/dataset"
)

// EmptyName is the name reported for dataset.NoLabel.
const EmptyName = "# empty datavector"

// Table assigns ids to label names in first-seen order.
// It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	names []string
	ids   map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{ids: make(map[string]int)}
}

// FromNames creates a table where names[i] has id i.
// Duplicate names keep their first id.
func FromNames(names []string) *Table {
	t := New()
	for _, n := range names {
		t.ID(n)
	}
	return t
}

// ID returns the id of name, assigning the next free id to unseen names.
func (t *Table) ID(name string) int {
	t.mu.RLock()
	id, ok := t.ids[name]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[name]; ok {
		return id
	}
	id = len(t.names)
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// Lookup returns the id of name without assigning one.
func (t *Table) Lookup(name string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the name of id. NoLabel maps to EmptyName and unknown ids to "#<id>".
func (t *Table) Name(id int) string {
	if id == dataset.NoLabel {
		return EmptyName
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || id >= len(t.names) {
		return fmt.Sprintf("#%d", id)
	}
	return t.names[id]
}

// Len returns the number of known names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}

// Names returns a copy of the names indexed by id.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.names...)
}

package dataset

// Cursor is a restartable forward-only position over a collection.
// It references the collection and never modifies it.
type Cursor struct {
	es    *Entries
	order []int
	pos   int
}

// Rewind resets the cursor and returns the first entry, or nil when the
// collection is empty. Collections in random order get a new permutation.
func (c *Cursor) Rewind() *Entry {
	c.pos = 0
	if c.es.randomOrder {
		c.order = c.es.permutation()
	} else {
		c.order = nil
	}
	return c.current()
}

// Next advances the cursor and returns the entry, or nil at the end.
// A cursor that was never rewound starts at the first entry.
func (c *Cursor) Next() *Entry {
	if c.pos < 0 {
		return c.Rewind()
	}
	if c.pos < c.es.Len() {
		c.pos++
	}
	return c.current()
}

// Index returns the collection index of the current entry, or -1.
func (c *Cursor) Index() int {
	if c.pos < 0 || c.pos >= c.es.Len() {
		return -1
	}
	if c.order != nil {
		if c.pos >= len(c.order) {
			return -1
		}
		return c.order[c.pos]
	}
	return c.pos
}

func (c *Cursor) current() *Entry {
	i := c.Index()
	if i < 0 {
		return nil
	}
	return c.es.entries[i]
}

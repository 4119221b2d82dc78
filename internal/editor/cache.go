package editor

import (
	"sync"

	"github.com/loganlanou/phishdesk/internal/templates"
)

// Cache holds the last fetched template list. Entries are addressed by
// template id, never by list position, so a reload cannot make an action
// land on the wrong template.
//
// Each fetch takes a generation from Begin. Replace only applies a result
// newer than the one currently shown, so a slow, superseded fetch cannot
// overwrite fresher data.
type Cache struct {
	mu         sync.RWMutex
	generation uint64
	applied    uint64
	inflight   int
	items      []templates.Template
	index      map[int64]int
}

func NewCache() *Cache {
	return &Cache{index: make(map[int64]int)}
}

// Begin marks the start of a fetch and returns its generation
func (c *Cache) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.inflight++
	return c.generation
}

// Abandon marks a fetch as finished without a result
func (c *Cache) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight > 0 {
		c.inflight--
	}
}

// Replace swaps in the list fetched by generation gen. It reports false when
// a newer generation has already been applied.
func (c *Cache) Replace(gen uint64, list []templates.Template) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight > 0 {
		c.inflight--
	}
	if gen <= c.applied {
		return false
	}

	items := make([]templates.Template, len(list))
	copy(items, list)
	index := make(map[int64]int, len(items))
	for i, t := range items {
		index[t.ID] = i
	}

	c.items = items
	c.index = index
	c.applied = gen
	return true
}

// Get resolves a template by id
func (c *Cache) Get(id int64) (templates.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return templates.Template{}, false
	}
	return c.items[i], true
}

// List returns a copy of the cached templates in fetch order
func (c *Cache) List() []templates.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]templates.Template, len(c.items))
	copy(items, c.items)
	return items
}

// Loading reports whether any fetch is still outstanding
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

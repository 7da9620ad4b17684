package index

import (
	"sync"

	"github.com/MrSnakeDoc/harbor/internal/domain"
)

// Equality decides whether two bookmarks denote the same host.
type Equality func(a, b *domain.Bookmark) bool

// Collection is an ordered set of bookmarks.
// Insertion order is preserved and membership is defined by the
// equality function supplied at construction.
// It is safe for concurrent use; Add is an atomic add-if-absent.
type Collection struct {
	mu    sync.RWMutex
	items []*domain.Bookmark
	equal Equality
}

// NewCollection creates an empty collection. A nil equality falls back
// to domain.SameHost.
func NewCollection(equal Equality) *Collection {
	if equal == nil {
		equal = domain.SameHost
	}
	return &Collection{
		items: make([]*domain.Bookmark, 0),
		equal: equal,
	}
}

// Add appends b unless an equal bookmark is already present.
// The in-memory password is cleared on admission.
func (c *Collection) Add(b *domain.Bookmark) bool {
	if b == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(b) >= 0 {
		return false
	}
	b.Credentials.Password = ""
	c.items = append(c.items, b)
	return true
}

// AddAll adds every bookmark and returns those actually admitted.
func (c *Collection) AddAll(bookmarks []*domain.Bookmark) []*domain.Bookmark {
	admitted := make([]*domain.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if c.Add(b) {
			admitted = append(admitted, b)
		}
	}
	return admitted
}

// Remove deletes the member equal to b.
func (c *Collection) Remove(b *domain.Bookmark) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(b)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Filter removes every member that existing already contains and
// returns the removed bookmarks in their original order.
func (c *Collection) Filter(existing *Collection) []*domain.Bookmark {
	if existing == nil || existing == c {
		return nil
	}
	// Snapshot first so the two locks are never held together.
	known := existing.All()
	eq := existing.equal

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	var removed []*domain.Bookmark
	for _, b := range c.items {
		if containsFunc(known, b, eq) {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	c.items = kept
	return removed
}

// All returns a snapshot in insertion order.
func (c *Collection) All() []*domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Bookmark, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of members.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// indexOf must be called with the lock held.
func (c *Collection) indexOf(b *domain.Bookmark) int {
	for i, item := range c.items {
		if c.equal(item, b) {
			return i
		}
	}
	return -1
}

func containsFunc(items []*domain.Bookmark, b *domain.Bookmark, eq Equality) bool {
	for _, item := range items {
		if eq(item, b) {
			return true
		}
	}
	return false
}

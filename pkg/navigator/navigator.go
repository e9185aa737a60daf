// Package navigator steps through loaded posts one at a time. It never
// fetches: the last loaded post has no next until the pager loads more.
package navigator

import "sync"

// Navigator is a cursor over an ordered list of post ids
type Navigator struct {
	mu      sync.Mutex
	ids     []string
	index   int
	current string
}

// New creates a closed navigator over ids
func New(ids []string) *Navigator {
	n := &Navigator{index: -1}
	n.ids = append(n.ids, ids...)
	return n
}

// Open points the cursor at id; it returns false when id is not loaded
func (n *Navigator) Open(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.find(id)
	if i < 0 {
		return false
	}
	n.index, n.current = i, id
	return true
}

// Next moves forward; at the last loaded post it does nothing
func (n *Navigator) Next() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index < 0 || n.index+1 >= len(n.ids) {
		return n.current, false
	}
	n.index++
	n.current = n.ids[n.index]
	return n.current, true
}

// Prev moves back; at the first post it does nothing
func (n *Navigator) Prev() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index <= 0 {
		return n.current, false
	}
	n.index--
	n.current = n.ids[n.index]
	return n.current, true
}

func (n *Navigator) HasNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index >= 0 && n.index+1 < len(n.ids)
}

func (n *Navigator) HasPrev() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0
}

// Close clears the cursor
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.index, n.current = -1, ""
}

// Current returns the open post id and its index
func (n *Navigator) Current() (string, int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.index, n.index >= 0
}

func (n *Navigator) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index >= 0
}

// Len returns the number of posts the cursor can reach
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.ids)
}

// Sync replaces the id list after pages load or posts are removed. The
// cursor follows the open post; if it is gone the navigator closes and
// Sync returns false.
func (n *Navigator) Sync(ids []string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.ids = append(n.ids[:0], ids...)
	if n.index < 0 {
		return true
	}
	i := n.find(n.current)
	if i < 0 {
		n.index, n.current = -1, ""
		return false
	}
	n.index = i
	return true
}

func (n *Navigator) find(id string) int {
	for i, v := range n.ids {
		if v == id {
			return i
		}
	}
	return -1
}

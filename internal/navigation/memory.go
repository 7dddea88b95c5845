package navigation

import "sync"

// MemoryLocation is a Location held in memory. The web layer seeds it from
// the request and inspects Writes afterwards to decide on a redirect.
type MemoryLocation struct {
	mu       sync.Mutex
	fragment string
	writes   []string
}

// NewMemoryLocation returns a location whose fragment starts at fragment.
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: fragment}
}

func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

func (l *MemoryLocation) SetFragment(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fragment = fragment
	l.writes = append(l.writes, fragment)
}

// Writes returns every fragment written through SetFragment, oldest first.
func (l *MemoryLocation) Writes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.writes...)
}

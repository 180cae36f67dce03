package router

import (
	"sync"

	"github.com/markap/adminkit/core"
)

// MemoryNavigator is an in-process navigation layer: it tracks the current
// location and records every transition. The transport's 401 interceptor and
// the tests drive navigation through it; a hosted deployment replaces it with
// real HTTP redirects (see adapters/fiber).
type MemoryNavigator struct {
	mu      sync.RWMutex
	current string
	history []string
}

var _ core.Navigator = (*MemoryNavigator)(nil)

func NewMemoryNavigator(start string) *MemoryNavigator {
	return &MemoryNavigator{current: start}
}

func (n *MemoryNavigator) CurrentPath() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

func (n *MemoryNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.history = append(n.history, path)
}

// History returns every navigation performed, oldest first.
func (n *MemoryNavigator) History() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

package cache

import (
	"sync"
	"time"

	"tablegen/infrastructure/worksheet"
)

// WorkspaceCache stores worksheets by workspace token.
type WorkspaceCache struct {
	mu         sync.RWMutex
	workspaces map[string]*worksheet.Workspace
	maxIdle    time.Duration
}

// NewWorkspaceCache creates a cache. maxIdle <= 0 disables pruning.
func NewWorkspaceCache(maxIdle time.Duration) *WorkspaceCache {
	return &WorkspaceCache{
		workspaces: make(map[string]*worksheet.Workspace),
		maxIdle:    maxIdle,
	}
}

// Add stores ws and prunes workspaces idle longer than maxIdle.
func (c *WorkspaceCache) Add(ws *worksheet.Workspace, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxIdle > 0 {
		cutoff := now.Add(-c.maxIdle)
		for token, existing := range c.workspaces {
			if existing.IdleSince(cutoff) {
				delete(c.workspaces, token)
			}
		}
	}
	c.workspaces[ws.Token] = ws
}

// FindByToken returns the workspace for token and marks it active at now.
// The touch happens under the cache lock so a concurrent Add cannot prune it
// between lookup and use.
func (c *WorkspaceCache) FindByToken(token string, now time.Time) (*worksheet.Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws, ok := c.workspaces[token]
	if ok {
		ws.Touch(now)
	}
	return ws, ok
}

func (c *WorkspaceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.workspaces)
}

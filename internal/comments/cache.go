// internal/comments/cache.go
package comments

import (
	"sync"

	"github.com/akashkhedar/datamanager/internal/types"
)

// UserCache is the shared user-enrichment cache. Comment listings publish
// the user objects they carry so other surfaces can render authorship
// without re-fetching accounts.
type UserCache struct {
	mu    sync.RWMutex
	users map[types.UserID]*types.User
}

// NewUserCache creates an empty cache.
func NewUserCache() *UserCache {
	return &UserCache{users: make(map[types.UserID]*types.User)}
}

// Publish stores the users, overwriting stale entries.
func (c *UserCache) Publish(users ...*types.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range users {
		if u != nil && u.ID != 0 {
			c.users[u.ID] = u
		}
	}
}

// Get returns the cached user, nil when unknown.
func (c *UserCache) Get(id types.UserID) *types.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.users[id]
}

// Len returns the number of cached users.
func (c *UserCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}

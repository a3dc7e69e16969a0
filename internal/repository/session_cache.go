package repository

import (
	"context"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

var _ SessionRepository = &SessionCache{}

// SessionCache keeps intake sessions in memory and evicts them after ttl
// without writes. Values are copied in and out.
type SessionCache struct {
	cache *gocache.Cache
}

func NewSessionCache(ttl, cleanupInterval time.Duration) *SessionCache {
	return &SessionCache{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (c *SessionCache) GetSession(_ context.Context, sessionID string) (*entity.Session, error) {
	v, ok := c.cache.Get(sessionID)
	if !ok {
		return nil, entity.ErrInvalidSession
	}

	session, ok := v.(*entity.Session)
	if !ok {
		return nil, entity.ErrInvalidSession
	}

	return session.Clone(), nil
}

func (c *SessionCache) SaveSession(_ context.Context, session *entity.Session) error {
	c.cache.SetDefault(session.ID, session.Clone())
	return nil
}

func (c *SessionCache) DeleteSession(_ context.Context, sessionID string) error {
	c.cache.Delete(sessionID)
	return nil
}

// Count reports the number of live sessions, expired ones may be included until cleanup
func (c *SessionCache) Count() int {
	return c.cache.ItemCount()
}

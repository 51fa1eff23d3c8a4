package store

import (
	"encoding/json"
	"sync"

	"github.com/Parthajit/Timer-Tools/internal/models"
)

const (
	sessionsKey = "timetools_sessions"
	seededKey   = "timetools_mock_seeded"
)

// LocalCache is the append-only session list kept in a KV, used when no
// identity exists or a remote write fails. Entries here carry no user id.
// Writes are serialized so concurrent appends cannot drop each other.
type LocalCache struct {
	mu sync.Mutex
	kv KV
}

func NewLocalCache(kv KV) *LocalCache {
	return &LocalCache{kv: kv}
}

// All returns every cached session. A missing or corrupt payload reads as
// empty; the cache never fails a read.
func (c *LocalCache) All() []models.TimerSession {
	raw, ok := c.kv.Get(sessionsKey)
	if !ok || raw == "" {
		return nil
	}
	var sessions []models.TimerSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil
	}
	return sessions
}

// Append adds one session to the cached list and persists it. The
// read-modify-write runs under the cache lock.
func (c *LocalCache) Append(s models.TimerSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sessions := append(c.All(), s)
	b, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return c.kv.Set(sessionsKey, string(b))
}

// Replace overwrites the whole cached list. Used only by the mock seeder.
func (c *LocalCache) Replace(sessions []models.TimerSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return c.kv.Set(sessionsKey, string(b))
}

// Seeded reports whether mock data was ever generated for this cache.
func (c *LocalCache) Seeded() bool {
	v, ok := c.kv.Get(seededKey)
	return ok && v == "1"
}

func (c *LocalCache) MarkSeeded() error {
	return c.kv.Set(seededKey, "1")
}

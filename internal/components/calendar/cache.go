package calendar

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/schoolofsharks/trainingcal/internal/events"
	"github.com/schoolofsharks/trainingcal/internal/observability"
)

type cacheKey struct {
	userID int64
	year   int
	month  int
}

// Generation identifies the invalidation state of one month. A load that started under an older
// generation must not be stored.
type Generation struct {
	user  uint64
	month uint64
}

// Cache keeps assembled months until they are invalidated. Entries never expire on their own;
// every assignment mutation must invalidate the month it touched.
type Cache struct {
	mu       sync.RWMutex
	entries  map[cacheKey]*Month
	gens     map[cacheKey]uint64
	userGens map[int64]uint64
	logger   zerolog.Logger
}

func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		entries:  make(map[cacheKey]*Month),
		gens:     make(map[cacheKey]uint64),
		userGens: make(map[int64]uint64),
		logger:   logger.With().Str("component", "calendar_cache").Logger(),
	}
}

func (c *Cache) Get(userID int64, year, month int) (*Month, bool) {
	c.mu.RLock()
	m, ok := c.entries[cacheKey{userID, year, month}]
	c.mu.RUnlock()

	if ok {
		observability.RecordCacheHit()
	} else {
		observability.RecordCacheMiss()
	}
	return m, ok
}

func (c *Cache) Put(m *Month) {
	c.mu.Lock()
	c.entries[cacheKey{m.UserID, m.Year, m.Month}] = m
	c.mu.Unlock()
}

// Generation must be read before the sources are queried.
func (c *Cache) Generation(userID int64, year, month int) Generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation(cacheKey{userID, year, month})
}

// PutIfCurrent stores m unless its month was invalidated after gen was read. It reports whether
// m was stored.
func (c *Cache) PutIfCurrent(m *Month, gen Generation) bool {
	key := cacheKey{m.UserID, m.Year, m.Month}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation(key) != gen {
		return false
	}
	c.entries[key] = m
	return true
}

func (c *Cache) generation(key cacheKey) Generation {
	return Generation{user: c.userGens[key.userID], month: c.gens[key]}
}

func (c *Cache) Invalidate(userID int64, year, month int) {
	key := cacheKey{userID, year, month}
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()

	observability.RecordCacheInvalidate()
	c.logger.Debug().Int64("user_id", userID).Int("year", year).Int("month", month).Msg("Invalidated month")
}

// InvalidateDate drops the month containing date.
func (c *Cache) InvalidateDate(userID int64, date civil.Date) {
	c.Invalidate(userID, date.Year, int(date.Month))
}

// InvalidateUser drops every cached month of the user.
func (c *Cache) InvalidateUser(userID int64) {
	c.mu.Lock()
	c.userGens[userID]++
	dropped := 0
	for k := range c.entries {
		if k.userID == userID {
			delete(c.entries, k)
			dropped++
		}
	}
	c.mu.Unlock()

	observability.RecordCacheInvalidate()
	c.logger.Debug().Int64("user_id", userID).Int("dropped", dropped).Msg("Invalidated user")
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// HandleAssignmentChanged applies an invalidation published by another instance.
func (c *Cache) HandleAssignmentChanged(_ context.Context, evt events.AssignmentChanged) error {
	if evt.ScheduledDate.IsZero() {
		c.InvalidateUser(evt.UserID)
		return nil
	}
	c.InvalidateDate(evt.UserID, evt.ScheduledDate)
	return nil
}

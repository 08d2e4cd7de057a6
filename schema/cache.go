package schema

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/loghive/logsearch/slog"
	"github.com/loghive/logsearch/solr"
)

// Cache is a [Lookup] fed by periodic schema fetches. Reads never block on a
// refresh; a failed refresh keeps the previous snapshot.
type Cache struct {
	fetcher *Fetcher

	mu     sync.RWMutex
	fields map[LogType]map[string]string
	types  map[LogType]map[string]solr.FieldTypeDef
}

// NewCache creates an empty cache over the given fetcher.
// Call [Cache.Refresh] or [Cache.Run] to populate it.
func NewCache(f *Fetcher) *Cache {
	return &Cache{
		fetcher: f,
		fields:  map[LogType]map[string]string{},
		types:   map[LogType]map[string]solr.FieldTypeDef{},
	}
}

// FieldType implements [Lookup].
func (c *Cache) FieldType(lt LogType, field string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.fields[lt][field]
	return t, ok
}

// TypeDef implements [Lookup].
func (c *Cache) TypeDef(lt LogType, fieldType string) (solr.FieldTypeDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.types[lt][fieldType]
	return def, ok
}

// Refresh fetches the schema of every configured log type concurrently and
// swaps in the new snapshots. If any fetch fails the whole refresh fails and
// no snapshot is replaced.
func (c *Cache) Refresh(ctx context.Context) error {
	type snapshot struct {
		lt     LogType
		fields map[string]string
		types  map[string]solr.FieldTypeDef
	}

	lts := c.fetcher.LogTypes()
	snapshots := make([]snapshot, len(lts))

	g, ctx := errgroup.WithContext(ctx)
	for i, lt := range lts {
		g.Go(func() error {
			fields, types, err := c.fetcher.Fetch(ctx, lt)
			if err != nil {
				return err
			}
			snapshots[i] = snapshot{lt: lt, fields: fields, types: types}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range snapshots {
		c.fields[s.lt] = s.fields
		c.types[s.lt] = s.types
	}
	return nil
}

// Run refreshes the cache immediately and then on every tick of the given
// interval until the context is cancelled. Refresh failures are logged and
// the loop keeps going.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		log := slog.FromCtx(ctx).With("refresh_id", uuid.NewString())
		if err := c.Refresh(ctx); err != nil {
			log.Error("schema refresh failed", "error", err)
		} else {
			log.Debug("schema refreshed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

package hotcache

import (
	"container/list"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hupe1980/blobcache/internal/entry"
	"github.com/hupe1980/blobcache/internal/resource"
)

// ErrTooLarge is returned when a resident cannot fit even into an empty cache.
var ErrTooLarge = errors.New("hotcache: entry larger than limit")

// Config configures a Cache.
type Config struct {
	// Limit is the maximum number of resident bytes.
	Limit int64
	// Order selects which residents are evicted first.
	Order entry.Order
	// Resources tracks resident bytes. Optional.
	Resources *resource.Controller
	// Barrier runs before eviction and before a Mapped resident is removed. Optional.
	Barrier func()
	// OnEvict is called after a resident was evicted to make room. Optional.
	OnEvict func(id uint32, kind Kind)
	// Logger receives debug output. Optional.
	Logger *slog.Logger
}

type item struct {
	id       uint32
	resident Resident
}

// Cache is the bounded set of resident entries.
type Cache struct {
	cfg   Config
	size  int64
	items map[uint32]*list.Element
	// recency holds items with the most recently used at the front.
	recency *list.List
}

// New creates an empty hot cache.
func New(cfg Config) *Cache {
	if cfg.Barrier == nil {
		cfg.Barrier = func() {}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		cfg:     cfg,
		items:   make(map[uint32]*list.Element),
		recency: list.New(),
	}
}

// Add makes r resident under id, evicting others if needed.
// A resident already held for id is released first.
// On error the caller keeps ownership of r.
func (c *Cache) Add(id uint32, r Resident) error {
	if _, err := c.Remove(id); err != nil {
		return err
	}

	size := r.Size()
	if size > c.cfg.Limit {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, size, c.cfg.Limit)
	}

	if c.size+size > c.cfg.Limit {
		c.cfg.Logger.Debug("hot cache full, freeing space",
			"size", c.size,
			"incoming", size,
			"limit", c.cfg.Limit,
			"id", id,
		)

		// Settle in-flight writes so eviction sees a consistent view.
		c.cfg.Barrier()

		for _, victim := range c.victims() {
			kind := c.kindOf(victim)
			if _, err := c.Remove(victim); err != nil {
				return fmt.Errorf("hotcache: evict %d: %w", victim, err)
			}
			if c.cfg.OnEvict != nil {
				c.cfg.OnEvict(victim, kind)
			}
			if c.size+size <= c.cfg.Limit/2 {
				break
			}
		}
	}

	if err := c.cfg.Resources.AcquireMemory(size); err != nil {
		return fmt.Errorf("hotcache: admit %d: %w", id, err)
	}

	c.items[id] = c.recency.PushFront(&item{id: id, resident: r})
	c.size += size

	c.cfg.Logger.Debug("hot cache add", "id", id, "kind", r.Kind(), "size", c.size)
	return nil
}

// Get returns the entry buffer resident for id and marks it recently used.
func (c *Cache) Get(id uint32) ([]byte, bool) {
	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.recency.MoveToFront(el)
	return el.Value.(*item).resident.Bytes(), true
}

// Remove releases the resident held for id.
// It reports whether id was resident.
func (c *Cache) Remove(id uint32) (bool, error) {
	el, ok := c.items[id]
	if !ok {
		return false, nil
	}

	it := el.Value.(*item)

	// Only a mapping can still be read by an in-flight write of the same file.
	if it.resident.Kind() == KindMapped {
		c.cfg.Barrier()
	}

	size := it.resident.Size()
	err := it.resident.Release()

	// The entry is forgotten even when release fails; a failed munmap cannot be retried.
	c.recency.Remove(el)
	delete(c.items, id)
	c.size -= size
	c.cfg.Resources.ReleaseMemory(size)

	if err != nil {
		return true, fmt.Errorf("hotcache: release %d: %w", id, err)
	}
	return true, nil
}

// Clear releases every resident.
func (c *Cache) Clear() error {
	var errs []error
	for id, el := range c.items {
		it := el.Value.(*item)
		if err := it.resident.Release(); err != nil {
			errs = append(errs, fmt.Errorf("hotcache: release %d: %w", id, err))
		}
		c.cfg.Resources.ReleaseMemory(it.resident.Size())
	}
	clear(c.items)
	c.recency.Init()
	c.size = 0
	return errors.Join(errs...)
}

// Len returns the number of residents.
func (c *Cache) Len() int {
	return len(c.items)
}

// Size returns the number of resident bytes.
func (c *Cache) Size() int64 {
	return c.size
}

// Limit returns the configured byte limit.
func (c *Cache) Limit() int64 {
	return c.cfg.Limit
}

func (c *Cache) kindOf(id uint32) Kind {
	if el, ok := c.items[id]; ok {
		return el.Value.(*item).resident.Kind()
	}
	return 0
}

// victims returns resident IDs in eviction order.
func (c *Cache) victims() []uint32 {
	ids := make([]uint32, 0, len(c.items))
	if c.cfg.Order == entry.OrderID {
		for id := range c.items {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids
	}
	for el := c.recency.Back(); el != nil; el = el.Prev() {
		ids = append(ids, el.Value.(*item).id)
	}
	return ids
}

package render

import (
	"bytes"
	"container/list"
	"io"
	"sync"

	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
)

// Cache memoises rendered documents by key, evicting the least recently used
// entry past its size. Only settled frames should be cached; an animating
// gauge changes every frame.
type Cache struct {
	maxEntries int
	metrics    *observability.Metrics

	mu    sync.Mutex
	order *list.List // of *cached, most recent at the front
	items map[string]*list.Element
}

type cached struct {
	key string
	doc []byte
}

// NewCache creates a cache holding at most maxEntries documents. A size of
// zero or less disables caching.
func NewCache(maxEntries int, metrics *observability.Metrics) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		metrics:    metrics,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// GetOrRender returns the cached document for key, calling render to build
// and store it on a miss. Failed renders are not cached.
func (c *Cache) GetOrRender(key string, render func(io.Writer) error) ([]byte, error) {
	if doc, ok := c.lookup(key); ok {
		c.observe("hit")
		return doc, nil
	}
	c.observe("miss")

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	doc := buf.Bytes()
	c.store(key, doc)
	return doc, nil
}

// Len reports the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).doc, true
}

func (c *Cache) store(key string, doc []byte) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cached).doc = doc
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cached{key: key, doc: doc})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cached).key)
	}
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.RenderCache.WithLabelValues(result).Inc()
	}
}

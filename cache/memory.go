package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Memory is an in-process LRU store with per-entry expiry. Eviction triggers
// on whichever comes first: capacity overflow (least recently used entry is
// dropped) or TTL expiry (checked lazily on access).
type Memory struct {
	mu      sync.Mutex
	max     int
	ttl     time.Duration
	order   *list.List
	entries map[string]*list.Element

	now func() time.Time
}

type memoryEntry struct {
	key       string
	body      []byte
	expiresAt time.Time
}

func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{
		max:     maxEntries,
		ttl:     ttl,
		order:   list.New(),
		entries: make(map[string]*list.Element, maxEntries),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if m.now().After(entry.expiresAt) {
		m.order.Remove(el)
		delete(m.entries, key)
		return nil, false
	}
	m.order.MoveToFront(el)
	return entry.body, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expires := m.now().Add(m.ttl)
	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.body = value
		entry.expiresAt = expires
		m.order.MoveToFront(el)
		return
	}

	el := m.order.PushFront(&memoryEntry{key: key, body: value, expiresAt: expires})
	m.entries[key] = el

	for m.order.Len() > m.max {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) Max() int { return m.max }

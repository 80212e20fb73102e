package cache

import (
	"context"
	"sync"
	"time"
)

const defaultMaxEntries = 50000

type entry struct {
	key        string
	val        []byte
	expires    time.Time
	prev, next *entry
}

func (e *entry) reset() {
	*e = entry{}
}

// Memory is a bounded in-process cache. When full, expired entries are
// collected first and the oldest live insertion is evicted only if that frees
// nothing. Otherwise expired entries are dropped lazily on access.
type Memory struct {
	mu         sync.Mutex
	items      map[string]*entry
	head, tail *entry    // head is the newest insertion
	soonest    time.Time // earliest deadline since the last sweep
	maxEntries int
	now        func() time.Time
	pool       sync.Pool
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithMaxEntries bounds the number of entries; zero or less means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) { m.maxEntries = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-process cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		items:      make(map[string]*entry),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
	m.pool.New = func() any { return &entry{} }
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.items[key]; ok {
		m.remove(e)
	}
	m.insert(key, val, ttl)
	return nil
}

// SetNX implements Cache.
func (m *Memory) SetNX(_ context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.insert(key, val, ttl)
	return true, nil
}

// Delete implements Cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.items[key]; ok {
		m.remove(e)
	}
	return nil
}

// Size returns the number of stored entries, including expired ones not yet
// collected.
func (m *Memory) Size(context.Context) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items))
}

// Backend implements Cache.
func (m *Memory) Backend() string { return BackendMemory }

// Close implements Cache.
func (m *Memory) Close() error { return nil }

// lookup returns a live entry, dropping it if expired. Callers hold mu.
func (m *Memory) lookup(key string) (*entry, bool) {
	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.remove(e)
		return nil, false
	}
	return e, true
}

func (m *Memory) insert(key string, val []byte, ttl time.Duration) {
	if m.maxEntries > 0 {
		if len(m.items) >= m.maxEntries {
			m.sweep()
		}
		for len(m.items) >= m.maxEntries && m.tail != nil {
			m.remove(m.tail)
		}
	}

	e := m.pool.Get().(*entry)
	e.key = key
	e.val = append([]byte(nil), val...)
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
		if m.soonest.IsZero() || e.expires.Before(m.soonest) {
			m.soonest = e.expires
		}
	}
	e.next = m.head
	if m.head != nil {
		m.head.prev = e
	}
	m.head = e
	if m.tail == nil {
		m.tail = e
	}
	m.items[key] = e
}

// sweep drops every expired entry. It walks the list only once the earliest
// known deadline has passed. Callers hold mu.
func (m *Memory) sweep() {
	now := m.now()
	if m.soonest.IsZero() || now.Before(m.soonest) {
		return
	}
	m.soonest = time.Time{}
	for e := m.head; e != nil; {
		next := e.next
		switch {
		case e.expires.IsZero():
		case !now.Before(e.expires):
			m.remove(e)
		case m.soonest.IsZero() || e.expires.Before(m.soonest):
			m.soonest = e.expires
		}
		e = next
	}
}

func (m *Memory) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		m.tail = e.prev
	}
	delete(m.items, e.key)
	e.reset()
	m.pool.Put(e)
}

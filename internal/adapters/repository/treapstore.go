package repository

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: rating DESC, then key ASC. "less" means ranks earlier, so an
// in-order traversal yields the shortlist from best to worst. Priorities
// come from hashing the key, which keeps the tree balanced in expectation
// and the shape deterministic.

// ratingScale stores ratings as hundredths so equal ratings compare equal.
const ratingScale = 100

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	return ratingFP(math.Round(x * ratingScale))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

type record struct {
	rating ratingFP
	c      Candidate
}

type node struct {
	key    string
	rating ratingFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aRating ratingFP, aKey string, bRating ratingFP, bKey string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aKey < bKey
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, key string, rating ratingFP) *node {
	if n == nil {
		return &node{key: key, rating: rating, prio: xxhash.Sum64String(key), size: 1}
	}
	if less(rating, key, n.rating, n.key) {
		n.left = insert(n.left, key, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key string, rating ratingFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case rating == n.rating && key == n.key:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key, rating)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key, rating)
		}
	case less(rating, key, n.rating, n.key):
		n.left = deleteNode(n.left, key, rating)
	default:
		n.right = deleteNode(n.right, key, rating)
	}
	fix(n)
	return n
}

// walk visits nodes in rank order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, visit) {
		return false
	}
	if !visit(n) {
		return false
	}
	return walk(n.right, visit)
}

// ranker assigns dense ranks: equal ratings share a rank and the next
// distinct rating takes the following one.
type ranker struct {
	rank int
	last ratingFP
}

func (r *ranker) next(rating ratingFP) int {
	if r.rank == 0 || rating != r.last {
		r.rank++
		r.last = rating
	}
	return r.rank
}

// TreapStore is the in-memory shortlist.
type TreapStore struct {
	mu                    sync.RWMutex
	root                  *node
	byKey                 map[string]record
	key                   func(string) string
	rosterVersion         string
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTreapStore constructs a shortlist with configuration options. A
// background goroutine publishes size metrics until ctx ends or Close.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byKey:                 make(map[string]record),
		key:                   model.Fold,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background goroutine.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// UpdateBest implements Store.UpdateBest in O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, c Candidate) (bool, error) {
	c.Name = strings.TrimSpace(c.Name)
	k := s.key(c.Name)
	if k == "" || math.IsNaN(c.FinalRating) || math.IsInf(c.FinalRating, 0) {
		metrics.RecordErrorByComponent("repository", "invalid_entry")
		return false, fmt.Errorf("%w: %q", ErrInvalidEntry, c.Name)
	}
	nr := toFixedPoint(c.FinalRating)

	s.mu.Lock()
	if c.RosterVersion != "" && s.rosterVersion != "" && c.RosterVersion != s.rosterVersion {
		current := s.rosterVersion
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "stale_roster")
		return false, fmt.Errorf("%w: %s scored on %s, current %s", ErrStaleRoster, c.Name, c.RosterVersion, current)
	}
	if old, ok := s.byKey[k]; ok {
		if nr <= old.rating {
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, k, old.rating)
	}
	s.byKey[k] = record{rating: nr, c: c}
	s.root = insert(s.root, k, nr)
	size := len(s.byKey)
	s.mu.Unlock()

	metrics.RecordShortlistUpdate()
	metrics.UpdateShortlistSize(size)
	return true, nil
}

// Rank returns the current rank of a player.
func (s *TreapStore) Rank(ctx context.Context, name string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordShortlistQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	k := s.key(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byKey[k]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var out Entry
	var r ranker
	walk(s.root, func(n *node) bool {
		rank := r.next(n.rating)
		if n.key != k {
			return true
		}
		out = s.entry(n, rank)
		return false
	})
	return out, nil
}

// TopN returns the top N entries.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordShortlistQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byKey)))
	var r ranker
	walk(s.root, func(nd *node) bool {
		out = append(out, s.entry(nd, r.next(nd.rating)))
		return len(out) < n
	})
	return out, nil
}

// Reset implements Store.Reset.
func (s *TreapStore) Reset(ctx context.Context, rosterVersion string) {
	s.mu.Lock()
	s.root = nil
	s.byKey = make(map[string]record)
	s.rosterVersion = rosterVersion
	s.mu.Unlock()
	metrics.UpdateShortlistSize(0)
}

// Count returns the number of players on the shortlist.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

func (s *TreapStore) entry(n *node, rank int) Entry {
	rec := s.byKey[n.key]
	c := rec.c
	c.FinalRating = toFloat(rec.rating)
	return Entry{Rank: rank, Candidate: c}
}

func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateShortlistSize(s.Count(ctx))
			}
		}
	}()
}

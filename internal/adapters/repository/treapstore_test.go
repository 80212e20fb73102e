package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"
)

func newStore(t testing.TB) *TreapStore {
	t.Helper()
	s := NewTreapStore(context.Background())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cand(name string, rating float64) Candidate {
	return Candidate{Name: name, FinalRating: rating, Position: "ST", Recommendation: "Good Signing"}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	updated, err := store.UpdateBest(ctx, cand("Nico Williams", 8.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected update to succeed")
	}

	entry, err := store.Rank(ctx, "nico williams")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.FinalRating != 8.2 || entry.Name != "Nico Williams" {
		t.Errorf("unexpected entry %+v", entry)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestTreapStore_KeepsBestEvaluation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if ok, _ := store.UpdateBest(ctx, cand("Álex Baena", 6.0)); !ok {
		t.Fatal("first insert must succeed")
	}
	if ok, _ := store.UpdateBest(ctx, cand("alex baena", 5.5)); ok {
		t.Error("lower rating must not replace the stored one")
	}
	if ok, _ := store.UpdateBest(ctx, cand("Alex  Baena", 6.0)); ok {
		t.Error("equal rating is not an improvement")
	}
	if ok, _ := store.UpdateBest(ctx, Candidate{Name: "ALEX BAENA", FinalRating: 7.1, SubmissionID: "s-2"}); !ok {
		t.Error("higher rating must replace the stored one")
	}

	if n := store.Count(ctx); n != 1 {
		t.Fatalf("accented and cased spellings are one player, got %d", n)
	}
	e, err := store.Rank(ctx, "Álex Baena")
	if err != nil {
		t.Fatal(err)
	}
	if e.FinalRating != 7.1 || e.SubmissionID != "s-2" {
		t.Errorf("expected the improved record, got %+v", e)
	}
}

func TestTreapStore_OrderingAndTies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for _, c := range []Candidate{
		cand("Zubimendi", 8.1),
		cand("Baena", 7.4),
		cand("Alvarez", 8.1),
		cand("Nico Williams", 8.6),
		cand("Sorloth", 6.2),
	} {
		if _, err := store.UpdateBest(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name string
		rank int
	}{
		{"Nico Williams", 1},
		{"Alvarez", 2},
		{"Zubimendi", 2},
		{"Baena", 3},
		{"Sorloth", 4},
	}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Name != w.name || top[i].Rank != w.rank {
			t.Errorf("position %d: expected %s#%d, got %s#%d", i, w.name, w.rank, top[i].Name, top[i].Rank)
		}
	}

	e, err := store.Rank(ctx, "Zubimendi")
	if err != nil {
		t.Fatal(err)
	}
	if e.Rank != 2 {
		t.Errorf("tied players share a rank, got %d", e.Rank)
	}

	top2, _ := store.TopN(ctx, 2)
	if len(top2) != 2 || top2[1].Name != "Alvarez" {
		t.Errorf("TopN must truncate in rank order, got %+v", top2)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if _, err := store.Rank(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.UpdateBest(ctx, cand("   ", 5)); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for blank name, got %v", err)
	}
	if _, err := store.UpdateBest(ctx, cand("NaN", math.NaN())); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for NaN, got %v", err)
	}
}

func TestTreapStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i := 0; i < 10; i++ {
		_, _ = store.UpdateBest(ctx, cand(fmt.Sprintf("player-%d", i), float64(i)))
	}
	store.Reset(ctx, "")
	if n := store.Count(ctx); n != 0 {
		t.Fatalf("expected empty shortlist, got %d", n)
	}
	top, err := store.TopN(ctx, 5)
	if err != nil || len(top) != 0 {
		t.Errorf("expected no entries, got %v (%v)", top, err)
	}
}

func TestTreapStore_RosterVersion(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithRosterVersion("v1"))
	t.Cleanup(func() { _ = store.Close() })

	scored := func(name, version string, rating float64) Candidate {
		c := cand(name, rating)
		c.RosterVersion = version
		return c
	}

	if ok, err := store.UpdateBest(ctx, scored("Nico Williams", "v1", 8.2)); !ok || err != nil {
		t.Fatalf("expected current-roster candidate to be stored, got %v (%v)", ok, err)
	}

	store.Reset(ctx, "v2")
	ok, err := store.UpdateBest(ctx, scored("Pedri", "v1", 9.1))
	if ok || !errors.Is(err, ErrStaleRoster) {
		t.Fatalf("expected ErrStaleRoster for old roster, got %v (%v)", ok, err)
	}
	if n := store.Count(ctx); n != 0 {
		t.Fatalf("stale candidate must not be shortlisted, got %d entries", n)
	}

	if ok, err := store.UpdateBest(ctx, scored("Nico Williams", "v2", 8.2)); !ok || err != nil {
		t.Errorf("expected new-roster candidate to be stored, got %v (%v)", ok, err)
	}
	if ok, err := store.UpdateBest(ctx, cand("Unversioned", 5)); !ok || err != nil {
		t.Errorf("expected unversioned candidate to be stored, got %v (%v)", ok, err)
	}
}

func TestTreapStore_RankMatchesSort(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	rng := rand.New(rand.NewSource(7))

	best := map[string]float64{}
	for i := 0; i < 2000; i++ {
		name := fmt.Sprintf("player-%03d", rng.Intn(300))
		rating := float64(10+rng.Intn(86)) / 10
		_, _ = store.UpdateBest(ctx, cand(name, rating))
		if rating > best[name] {
			best[name] = rating
		}
	}

	names := make([]string, 0, len(best))
	for n := range best {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if best[names[i]] != best[names[j]] {
			return best[names[i]] > best[names[j]]
		}
		return names[i] < names[j]
	})

	top, err := store.TopN(ctx, len(names))
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != len(names) {
		t.Fatalf("expected %d entries, got %d", len(names), len(top))
	}
	for i, n := range names {
		if top[i].Name != n || top[i].FinalRating != best[n] {
			t.Fatalf("position %d: expected %s %.1f, got %s %.1f", i, n, best[n], top[i].Name, top[i].FinalRating)
		}
		e, err := store.Rank(ctx, n)
		if err != nil || e.Rank != top[i].Rank {
			t.Fatalf("rank mismatch for %s: %d vs %d (%v)", n, e.Rank, top[i].Rank, err)
		}
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				name := fmt.Sprintf("player-%d", i%50)
				_, _ = store.UpdateBest(ctx, cand(name, float64(w*200+i)/100))
				_, _ = store.TopN(ctx, 10)
				_, _ = store.Rank(ctx, name)
			}
		}(w)
	}
	wg.Wait()

	if n := store.Count(ctx); n != 50 {
		t.Errorf("expected 50 players, got %d", n)
	}
}

func BenchmarkTreapStore_UpdateBest(b *testing.B) {
	ctx := context.Background()
	store := newStore(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.UpdateBest(ctx, cand(fmt.Sprintf("player-%d", i%10000), float64(i%95)/10))
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := newStore(b)
	for i := 0; i < 10000; i++ {
		_, _ = store.UpdateBest(ctx, cand(fmt.Sprintf("player-%d", i), float64(i%95)/10))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, 10)
	}
}

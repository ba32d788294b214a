// ABOUTME: Tests for the breed reference data loader
// ABOUTME: Covers normalization, degraded fallback and load deduplication

package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/leishvet/leishvet-cli/internal/client"
)

type stubLister struct {
	breeds []client.Breed
	err    error
	calls  atomic.Int32
	gate   chan struct{} // when set, Breeds waits for it to close
}

func (s *stubLister) Breeds(ctx context.Context, token string) ([]client.Breed, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.breeds, s.err
}

func breedsNamed(names ...string) []client.Breed {
	out := make([]client.Breed, len(names))
	for i, n := range names {
		out[i] = client.Breed{ID: uuid.New(), Name: n}
	}
	return out
}

func TestBreedLoader_NormalizesNames(t *testing.T) {
	lister := &stubLister{breeds: breedsNamed(" Poodle ", "Beagle", "Beagle", "", "Akita")}
	loader := NewBreedLoader(lister)

	list := loader.Load(context.Background(), "tok-1")

	want := []string{"Akita", "Beagle", "Poodle"}
	if len(list.Names) != len(want) {
		t.Fatalf("expected %v, got %v", want, list.Names)
	}
	for i, name := range want {
		if list.Names[i] != name {
			t.Errorf("expected names trimmed, de-duplicated and sorted: %v, got %v", want, list.Names)
			break
		}
	}
	if list.Degraded {
		t.Error("expected a successful load not to be degraded")
	}
}

func TestBreedLoader_ErrorFallsBack(t *testing.T) {
	lister := &stubLister{err: errors.New("connection refused")}
	loader := NewBreedLoader(lister)

	list := loader.Load(context.Background(), "tok-1")

	if len(list.Names) != 1 || list.Names[0] != FallbackBreed {
		t.Errorf("expected exactly the fallback breed, got %v", list.Names)
	}
	if !list.Degraded {
		t.Error("expected Degraded to be set on failure")
	}
}

func TestBreedLoader_EmptyListFallsBack(t *testing.T) {
	loader := NewBreedLoader(&stubLister{})

	list := loader.Load(context.Background(), "tok-1")

	if len(list.Names) != 1 || list.Names[0] != FallbackBreed {
		t.Errorf("expected exactly the fallback breed, got %v", list.Names)
	}
	if !list.Degraded {
		t.Error("expected Degraded to be set for an empty list")
	}
}

func TestBreedLoader_ConcurrentLoadsShareOneFetch(t *testing.T) {
	gate := make(chan struct{})
	lister := &stubLister{breeds: breedsNamed("Beagle"), gate: gate}
	loader := NewBreedLoader(lister)

	var wg sync.WaitGroup
	results := make([]BreedList, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = loader.Load(context.Background(), "tok-1")
		}(i)
	}
	close(gate)
	wg.Wait()

	if calls := lister.calls.Load(); calls != 1 {
		t.Errorf("expected concurrent loads to share one fetch, got %d", calls)
	}
	for i, list := range results {
		if len(list.Names) != 1 || list.Names[0] != "Beagle" {
			t.Errorf("load %d got %v", i, list.Names)
		}
	}
}

func TestBreedList_DefaultSelection(t *testing.T) {
	withFallback := BreedList{Names: []string{"Beagle", FallbackBreed}}
	if got := withFallback.DefaultSelection(); got != FallbackBreed {
		t.Errorf("expected the fallback to be preselected, got %q", got)
	}

	withoutFallback := BreedList{Names: []string{"Beagle", "Poodle"}}
	if got := withoutFallback.DefaultSelection(); got != "" {
		t.Errorf("expected no preselection, got %q", got)
	}
}

// ABOUTME: Reference data loader for the dynamic breed option group
// ABOUTME: Normalizes the fetched list and degrades to a fallback on failure

package form

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/leishvet/leishvet-cli/internal/client"
)

// FallbackBreed is the single value offered when the breed list cannot be
// loaded or comes back empty.
const FallbackBreed = "SRD (Sem Raça Definida)"

// BreedLister fetches the raw breed reference list
type BreedLister interface {
	Breeds(ctx context.Context, token string) ([]client.Breed, error)
}

// BreedList is the resolved dynamic option set. Degraded is set when the
// fallback value is in use; the form stays usable either way.
type BreedList struct {
	Names    []string
	Degraded bool
}

// DefaultSelection returns the breed preselected on form activation:
// the fallback value when present in the list, otherwise nothing.
func (b BreedList) DefaultSelection() string {
	for _, name := range b.Names {
		if name == FallbackBreed {
			return FallbackBreed
		}
	}
	return ""
}

// BreedLoader loads the breed list once per form activation. Concurrent
// loads within one activation share a single fetch; nothing is memoized
// across activations, each mount re-fetches.
type BreedLoader struct {
	lister BreedLister
	group  singleflight.Group
}

// NewBreedLoader creates a loader backed by the given lister
func NewBreedLoader(lister BreedLister) *BreedLoader {
	return &BreedLoader{lister: lister}
}

// Load fetches and normalizes the breed list: names are trimmed,
// de-duplicated and sorted. Any error or an empty result degrades to the
// single fallback value instead of failing the form.
func (l *BreedLoader) Load(ctx context.Context, token string) BreedList {
	result, _, _ := l.group.Do("breeds", func() (any, error) {
		breeds, err := l.lister.Breeds(ctx, token)
		if err != nil {
			slog.Warn("breed list failed to load, using fallback", "error", err)
			return BreedList{Names: []string{FallbackBreed}, Degraded: true}, nil
		}
		names := normalizeBreedNames(breeds)
		if len(names) == 0 {
			slog.Warn("breed list came back empty, using fallback")
			return BreedList{Names: []string{FallbackBreed}, Degraded: true}, nil
		}
		return BreedList{Names: names}, nil
	})
	return result.(BreedList)
}

// normalizeBreedNames trims, drops blanks, de-duplicates and sorts
func normalizeBreedNames(breeds []client.Breed) []string {
	seen := make(map[string]bool, len(breeds))
	names := make([]string, 0, len(breeds))
	for _, b := range breeds {
		name := strings.TrimSpace(b.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

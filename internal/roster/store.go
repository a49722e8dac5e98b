// Package roster holds the process-wide examiner roster shared by every page.
//
// The store is constructed once at startup and handed to the pages that need
// it, either directly or through a context. There is no global instance:
// reading a roster that was never provided fails immediately.
package roster

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/forensicdesk/internal/database/repository"
)

var (
	// ErrNoStore is returned when a context carries no roster.
	ErrNoStore = errors.New("roster: no store in context; wrap it with roster.WithStore")
	// ErrUninitialized is the panic value for methods called on a store
	// that was not built with New.
	ErrUninitialized = errors.New("roster: store used before initialization; construct it with roster.New")
)

// Store is the source of truth for examiners. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	examiners []repository.Examiner
	log       *zap.Logger
	ready     bool
}

// New returns a store holding a copy of seed.
func New(seed []repository.Examiner, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{examiners: slices.Clone(seed), log: log, ready: true}
}

func (s *Store) mustReady() {
	if s == nil || !s.ready {
		panic(ErrUninitialized)
	}
}

// List returns the full roster in insertion order.
func (s *Store) List() []repository.Examiner {
	s.mustReady()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.examiners)
}

// Enabled returns the examiners whose status is enabled, order preserved.
// It is derived from the current list on every call.
func (s *Store) Enabled() []repository.Examiner {
	s.mustReady()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return enabledOf(s.examiners)
}

func enabledOf(list []repository.Examiner) []repository.Examiner {
	out := make([]repository.Examiner, 0, len(list))
	for _, e := range list {
		if e.Status == repository.StatusEnabled {
			out = append(out, e)
		}
	}
	return out
}

// Add appends e. Keys are not checked for uniqueness; callers mint them.
func (s *Store) Add(e repository.Examiner) {
	s.mustReady()
	s.mu.Lock()
	s.examiners = append(s.examiners, e)
	s.mu.Unlock()
	s.log.Info("examiner added", zap.String("key", e.Key), zap.String("name", e.Name))
}

// ReplaceAll swaps the whole roster for a copy of list.
func (s *Store) ReplaceAll(list []repository.Examiner) {
	s.mustReady()
	s.mu.Lock()
	s.examiners = slices.Clone(list)
	s.mu.Unlock()
	s.log.Info("roster replaced", zap.Int("examiners", len(list)))
}

// Update applies fn to the first examiner with the given key under the
// write lock. It reports whether an examiner was found. The key itself is
// restored if fn changes it.
func (s *Store) Update(key string, fn func(e *repository.Examiner)) bool {
	s.mustReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.examiners, func(e repository.Examiner) bool { return e.Key == key })
	if i < 0 {
		return false
	}
	e := s.examiners[i]
	fn(&e)
	e.Key = key
	s.examiners = slices.Clone(s.examiners)
	s.examiners[i] = e
	s.log.Debug("examiner updated", zap.String("key", key), zap.String("status", string(e.Status)))
	return true
}

// Lookup returns the enabled examiner with exactly this name.
func (s *Store) Lookup(name string) (repository.Examiner, bool) {
	s.mustReady()
	name = strings.TrimSpace(name)
	for _, e := range s.Enabled() {
		if e.Name == name {
			return e, true
		}
	}
	return repository.Examiner{}, false
}

// Suggest ranks enabled examiners by edit distance to name and returns at
// most limit of them, closest first. Ties keep roster order.
func (s *Store) Suggest(name string, limit int) []repository.Examiner {
	s.mustReady()
	name = strings.TrimSpace(name)
	enabled := s.Enabled()
	if name == "" || limit <= 0 || len(enabled) == 0 {
		return nil
	}
	type ranked struct {
		e    repository.Examiner
		dist int
	}
	ranks := make([]ranked, 0, len(enabled))
	for _, e := range enabled {
		ranks = append(ranks, ranked{e: e, dist: levenshtein.ComputeDistance(name, e.Name)})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].dist < ranks[j].dist })
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]repository.Examiner, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.e)
	}
	return out
}

type ctxKey struct{}

// WithStore returns a context that carries s.
func WithStore(ctx context.Context, s *Store) context.Context {
	s.mustReady()
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store carried by ctx, or ErrNoStore.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoStore
	}
	return s, nil
}

// MustFromContext is FromContext for callers that cannot run without a
// roster. It panics with ErrNoStore.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

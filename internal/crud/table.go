// Package crud implements the table controller shared by every list page: a
// working copy of an immutable seed dataset with search, reset and confirmed
// delete, each applied after a simulated latency.
//
// Every delayed step is a task bound to the table's context. A newer search
// supersedes the one in flight, and Close cancels everything still pending,
// so no timer touches a table after its page is gone.
package crud

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultLatency is the simulated backend delay.
const DefaultLatency = 500 * time.Millisecond

var (
	ErrNoKeyFunc = errors.New("crud: key function is required")
	ErrClosed    = errors.New("crud: table closed")
)

// KeyFunc extracts the unique key of a record.
type KeyFunc[T any] func(T) string

// FilterFunc reports whether a record matches a non-empty search keyword.
type FilterFunc[T any] func(item T, keyword string) bool

// Config configures a Table.
type Config[T any] struct {
	// Name labels log lines.
	Name string
	Seed []T
	Key  KeyFunc[T]
	// Filter is optional. Without it every search yields the full seed.
	Filter FilterFunc[T]
	// Latency is applied as-is; zero settles on the next scheduling pass.
	Latency time.Duration
	// Confirmer is asked before deletes. Nil accepts every delete.
	Confirmer Confirmer
	Logger    *zap.Logger
	// OnChange is called after every state change, outside the table lock.
	OnChange func()
}

// State is a point-in-time copy of the table.
type State[T any] struct {
	Items   []T
	Loading bool
	Keyword string
}

// Table is the controller for one mounted list page.
type Table[T any] struct {
	name      string
	seed      []T
	key       KeyFunc[T]
	filter    FilterFunc[T]
	latency   time.Duration
	confirmer Confirmer
	log       *zap.Logger
	onChange  func()

	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	idle     *sync.Cond
	items    []T
	keyword  string
	loading  bool
	pending  int
	inflight int
	seq      uint64
	search   context.CancelCauseFunc
	closed   bool
}

// New builds a table whose working set starts as a copy of cfg.Seed. The
// table lives until Close or until ctx ends.
func New[T any](ctx context.Context, cfg Config[T]) (*Table[T], error) {
	if cfg.Key == nil {
		return nil, ErrNoKeyFunc
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "table"
	}
	confirmer := cfg.Confirmer
	if confirmer == nil {
		confirmer = AutoConfirm
	}
	tctx, cancel := context.WithCancelCause(ctx)
	seed := slices.Clone(cfg.Seed)
	t := &Table[T]{
		name:      name,
		seed:      seed,
		key:       cfg.Key,
		filter:    cfg.Filter,
		latency:   cfg.Latency,
		confirmer: confirmer,
		log:       log.With(zap.String("table", name)),
		onChange:  cfg.OnChange,
		ctx:       tctx,
		cancel:    cancel,
		items:     slices.Clone(seed),
	}
	t.idle = sync.NewCond(&t.mu)
	return t, nil
}

// Snapshot returns a copy of the current state.
func (t *Table[T]) Snapshot() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State[T]{
		Items:   slices.Clone(t.items),
		Loading: t.loadingLocked(),
		Keyword: t.keyword,
	}
}

func (t *Table[T]) Items() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.items)
}

func (t *Table[T]) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadingLocked()
}

func (t *Table[T]) Keyword() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keyword
}

// Seed returns a copy of the immutable seed dataset.
func (t *Table[T]) Seed() []T { return slices.Clone(t.seed) }

func (t *Table[T]) loadingLocked() bool { return t.loading || t.pending > 0 }

// Search records keyword and, after the latency, replaces the working set
// with the seed filtered by keyword (the full seed when keyword is empty).
// Local edits made since the last search are discarded. A search still in
// flight is superseded.
func (t *Table[T]) Search(keyword string) *Op {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return finishedOp(Canceled, ErrClosed)
	}
	t.keyword = keyword
	if t.search != nil {
		t.search(errSuperseded)
	}
	t.seq++
	seq := t.seq
	ctx, cancel := context.WithCancelCause(t.ctx)
	t.search = cancel
	t.pending++
	op := t.spawnLocked()
	t.mu.Unlock()
	t.changed()
	t.log.Debug("search started", zap.String("keyword", keyword), zap.Uint64("seq", seq))

	go func() {
		defer t.exit()
		defer cancel(nil)

		err := t.sleep(ctx)
		var result []T
		if err == nil {
			result = t.derive(keyword)
		}

		t.mu.Lock()
		t.pending--
		switch {
		case err != nil:
		case t.closed:
			err = ErrClosed
		case t.seq != seq:
			err = errSuperseded
		default:
			t.items = result
		}
		if t.seq == seq {
			t.search = nil
		}
		t.mu.Unlock()
		t.changed()

		outcome, oerr := outcomeOf(err)
		t.log.Debug("search settled", zap.String("keyword", keyword), zap.Uint64("seq", seq),
			zap.Stringer("outcome", outcome), zap.Int("items", len(result)))
		op.finish(outcome, oerr)
	}()
	return op
}

// Reset is Search with an empty keyword.
func (t *Table[T]) Reset() *Op { return t.Search("") }

// Delete asks for confirmation and, once confirmed and after the latency,
// removes the first record whose key equals key from the current working
// set. A declined prompt leaves the state untouched. Deleting an absent key
// is a no-op that still reports Applied.
func (t *Table[T]) Delete(key string) *Op {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return finishedOp(Canceled, ErrClosed)
	}
	op := t.spawnLocked()
	t.mu.Unlock()

	go func() {
		defer t.exit()

		ok, err := t.confirmer.Confirm(t.ctx, DeletePrompt)
		if err != nil {
			if cause := context.Cause(t.ctx); cause != nil {
				err = cause
			}
			op.finish(Canceled, err)
			return
		}
		if !ok {
			t.log.Debug("delete declined", zap.String("key", key))
			op.finish(Declined, nil)
			return
		}
		if !t.begin() {
			op.finish(Canceled, ErrClosed)
			return
		}
		t.changed()

		err = t.sleep(t.ctx)
		removed := false
		t.mu.Lock()
		t.pending--
		if err == nil && t.closed {
			err = ErrClosed
		}
		if err == nil {
			if i := slices.IndexFunc(t.items, func(it T) bool { return t.key(it) == key }); i >= 0 {
				t.items = slices.Delete(slices.Clone(t.items), i, i+1)
				removed = true
			}
		}
		t.mu.Unlock()
		t.changed()

		outcome, oerr := outcomeOf(err)
		t.log.Info("delete settled", zap.String("key", key), zap.Bool("removed", removed), zap.Stringer("outcome", outcome))
		op.finish(outcome, oerr)
	}()
	return op
}

// Mutate applies fn to the working set after the latency. Create and edit
// flows use it so they share the delete path's loading behaviour. fn runs
// with the table locked and must not call back into the table.
func (t *Table[T]) Mutate(fn func(items []T) []T) *Op {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return finishedOp(Canceled, ErrClosed)
	}
	t.pending++
	op := t.spawnLocked()
	t.mu.Unlock()
	t.changed()

	go func() {
		defer t.exit()

		err := t.sleep(t.ctx)
		t.mu.Lock()
		t.pending--
		if err == nil && t.closed {
			err = ErrClosed
		}
		if err == nil {
			t.items = fn(slices.Clone(t.items))
		}
		t.mu.Unlock()
		t.changed()

		outcome, oerr := outcomeOf(err)
		t.log.Debug("mutation settled", zap.Stringer("outcome", outcome))
		op.finish(outcome, oerr)
	}()
	return op
}

// SetItems replaces the working set immediately with fn(current).
func (t *Table[T]) SetItems(fn func(items []T) []T) {
	t.mu.Lock()
	t.items = fn(slices.Clone(t.items))
	t.mu.Unlock()
	t.changed()
}

// SetLoading sets the raw loading flag. Pending operations keep the table
// loading regardless of the flag.
func (t *Table[T]) SetLoading(loading bool) {
	t.mu.Lock()
	t.loading = loading
	t.mu.Unlock()
	t.changed()
}

// SetKeyword records keyword without searching, for controlled inputs.
func (t *Table[T]) SetKeyword(keyword string) {
	t.mu.Lock()
	t.keyword = keyword
	t.mu.Unlock()
	t.changed()
}

// Settle blocks until every operation started so far has finished,
// including deletes still waiting for confirmation.
func (t *Table[T]) Settle() {
	t.mu.Lock()
	for t.inflight > 0 {
		t.idle.Wait()
	}
	t.mu.Unlock()
}

// Close cancels every pending operation and waits for their goroutines. The
// working set is not modified after Close is called.
func (t *Table[T]) Close() {
	t.mu.Lock()
	already := t.closed
	t.closed = true
	t.mu.Unlock()
	t.cancel(ErrClosed)
	t.Settle()
	if !already {
		t.log.Debug("table closed")
	}
}

func (t *Table[T]) derive(keyword string) []T {
	if keyword == "" || t.filter == nil {
		return slices.Clone(t.seed)
	}
	out := make([]T, 0, len(t.seed))
	for _, it := range t.seed {
		if t.filter(it, keyword) {
			out = append(out, it)
		}
	}
	return out
}

func (t *Table[T]) sleep(ctx context.Context) error {
	if t.latency <= 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}
	timer := time.NewTimer(t.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// spawnLocked registers a goroutine-backed operation. Callers hold t.mu.
func (t *Table[T]) spawnLocked() *Op {
	t.inflight++
	return newOp()
}

// begin marks a confirmed operation as pending unless the table is closed.
func (t *Table[T]) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.pending++
	return true
}

func (t *Table[T]) exit() {
	t.mu.Lock()
	t.inflight--
	if t.inflight == 0 {
		t.idle.Broadcast()
	}
	t.mu.Unlock()
}

func (t *Table[T]) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}

package crud

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type person struct {
	Key  string
	Name string
}

func personKey(p person) string { return p.Key }

func nameFilter(p person, keyword string) bool { return strings.Contains(p.Name, keyword) }

func seedPeople() []person {
	return []person{{Key: "1", Name: "张三"}, {Key: "2", Name: "李四"}}
}

func newTable(t *testing.T, cfg Config[person]) *Table[person] {
	t.Helper()
	if cfg.Key == nil {
		cfg.Key = personKey
	}
	tbl, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(tbl.Close)
	return tbl
}

func settle(t *testing.T, op *Op) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := op.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestNewRequiresKeyFunc(t *testing.T) {
	_, err := New(context.Background(), Config[person]{Seed: seedPeople()})
	require.ErrorIs(t, err, ErrNoKeyFunc)
}

func TestSearchThenReset(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Filter: nameFilter})

	require.Equal(t, Applied, settle(t, tbl.Search("张")))
	require.Equal(t, []person{{Key: "1", Name: "张三"}}, tbl.Items())
	require.Equal(t, "张", tbl.Keyword())

	require.Equal(t, Applied, settle(t, tbl.Reset()))
	if diff := cmp.Diff(seedPeople(), tbl.Items()); diff != "" {
		t.Fatalf("reset items mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "", tbl.Keyword())
}

func TestSearchRederivesFromSeed(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Filter: nameFilter})

	tbl.SetItems(func(items []person) []person {
		return append([]person{{Key: "3", Name: "张五"}}, items...)
	})
	require.Len(t, tbl.Items(), 3)

	settle(t, tbl.Search("张"))
	require.Equal(t, []person{{Key: "1", Name: "张三"}}, tbl.Items(), "local edits are discarded by a search")
}

func TestSearchWithoutFilterPassesThrough(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople()})

	settle(t, tbl.Search("nobody"))
	require.Equal(t, seedPeople(), tbl.Items())
}

func TestLatestSearchWins(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Filter: nameFilter, Latency: 20 * time.Millisecond})

	first := tbl.Search("张")
	second := tbl.Search("李")
	tbl.Settle()

	require.Equal(t, Superseded, first.Outcome())
	require.Equal(t, Applied, second.Outcome())
	require.Equal(t, []person{{Key: "2", Name: "李四"}}, tbl.Items())
	require.False(t, tbl.Loading())
}

func TestLoadingWhileSearchPending(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Filter: nameFilter, Latency: 20 * time.Millisecond})

	op := tbl.Search("李")
	require.True(t, tbl.Loading())
	require.Equal(t, Pending, op.Outcome())
	require.Len(t, tbl.Items(), 2, "items change only when the delay elapses")

	settle(t, op)
	require.False(t, tbl.Loading())
}

func TestDeleteRemovesFirstMatchOnly(t *testing.T) {
	seed := []person{{Key: "1", Name: "a"}, {Key: "1", Name: "b"}, {Key: "2", Name: "c"}}
	tbl := newTable(t, Config[person]{Seed: seed})

	require.Equal(t, Applied, settle(t, tbl.Delete("1")))
	require.Equal(t, []person{{Key: "1", Name: "b"}, {Key: "2", Name: "c"}}, tbl.Items())

	require.Equal(t, Applied, settle(t, tbl.Delete("missing")))
	require.Equal(t, []person{{Key: "1", Name: "b"}, {Key: "2", Name: "c"}}, tbl.Items())
	require.Equal(t, seed, tbl.Seed(), "seed is never touched")
}

func TestDeleteAppliesToCurrentItems(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Filter: nameFilter})

	tbl.SetItems(func(items []person) []person {
		return append([]person{{Key: "new", Name: "王五"}}, items...)
	})
	settle(t, tbl.Delete("new"))
	require.Equal(t, seedPeople(), tbl.Items())
}

func TestDeleteDeclinedLeavesStateUntouched(t *testing.T) {
	var mu sync.Mutex
	var loadingSeen bool
	var tbl *Table[person]
	var prompts []Prompt
	tbl = newTable(t, Config[person]{
		Seed: seedPeople(),
		Confirmer: ConfirmFunc(func(_ context.Context, p Prompt) (bool, error) {
			mu.Lock()
			prompts = append(prompts, p)
			mu.Unlock()
			return false, nil
		}),
		OnChange: func() {
			if tbl.Loading() {
				mu.Lock()
				loadingSeen = true
				mu.Unlock()
			}
		},
	})

	require.Equal(t, Declined, settle(t, tbl.Delete("1")))
	require.Equal(t, seedPeople(), tbl.Items())

	mu.Lock()
	defer mu.Unlock()
	require.False(t, loadingSeen)
	require.Equal(t, []Prompt{DeletePrompt}, prompts)
}

func TestDeleteConfirmerError(t *testing.T) {
	boom := errors.New("dialog closed")
	tbl := newTable(t, Config[person]{
		Seed: seedPeople(),
		Confirmer: ConfirmFunc(func(context.Context, Prompt) (bool, error) {
			return false, boom
		}),
	})

	op := tbl.Delete("1")
	tbl.Settle()
	require.Equal(t, Canceled, op.Outcome())
	require.ErrorIs(t, op.Err(), boom)
	require.Equal(t, seedPeople(), tbl.Items())
}

func TestMutateAfterLatency(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople(), Latency: 10 * time.Millisecond})

	op := tbl.Mutate(func(items []person) []person {
		return append([]person{{Key: "3", Name: "王五"}}, items...)
	})
	require.True(t, tbl.Loading())
	require.Equal(t, Applied, settle(t, op))
	require.Equal(t, "王五", tbl.Items()[0].Name)
	require.False(t, tbl.Loading())
}

func TestRawMutators(t *testing.T) {
	tbl := newTable(t, Config[person]{Seed: seedPeople()})

	tbl.SetLoading(true)
	require.True(t, tbl.Snapshot().Loading)
	tbl.SetLoading(false)
	require.False(t, tbl.Snapshot().Loading)

	tbl.SetKeyword("李")
	require.Equal(t, "李", tbl.Snapshot().Keyword)
	require.Len(t, tbl.Items(), 2, "setting the keyword does not search")
}

func TestCloseCancelsPendingWork(t *testing.T) {
	tbl, err := New(context.Background(), Config[person]{
		Seed:    seedPeople(),
		Key:     personKey,
		Filter:  nameFilter,
		Latency: time.Hour,
	})
	require.NoError(t, err)

	search := tbl.Search("张")
	del := tbl.Delete("1")
	mut := tbl.Mutate(func([]person) []person { return nil })
	tbl.Close()

	for _, op := range []*Op{search, del, mut} {
		require.Equal(t, Canceled, op.Outcome())
		require.ErrorIs(t, op.Err(), ErrClosed)
	}
	require.Equal(t, seedPeople(), tbl.Items())
	require.False(t, tbl.Loading())

	after := tbl.Search("李")
	require.Equal(t, Canceled, after.Outcome())
	require.ErrorIs(t, after.Err(), ErrClosed)

	tbl.Close()
}

func TestCloseUnblocksPendingConfirmation(t *testing.T) {
	asked := make(chan struct{})
	tbl, err := New(context.Background(), Config[person]{
		Seed: seedPeople(),
		Key:  personKey,
		Confirmer: ConfirmFunc(func(ctx context.Context, _ Prompt) (bool, error) {
			close(asked)
			<-ctx.Done()
			return false, ctx.Err()
		}),
	})
	require.NoError(t, err)

	op := tbl.Delete("1")
	<-asked
	tbl.Close()
	require.Equal(t, Canceled, op.Outcome())
	require.ErrorIs(t, op.Err(), ErrClosed)
}

func TestParentContextEndsTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tbl, err := New(ctx, Config[person]{Seed: seedPeople(), Key: personKey, Latency: time.Hour})
	require.NoError(t, err)
	defer tbl.Close()

	op := tbl.Search("张")
	cancel()
	outcome, err := op.Wait(context.Background())
	require.Equal(t, Canceled, outcome)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOnChangeFires(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	tbl := newTable(t, Config[person]{
		Seed:   seedPeople(),
		Filter: nameFilter,
		OnChange: func() {
			mu.Lock()
			calls++
			mu.Unlock()
		},
	})

	settle(t, tbl.Search("张"))
	tbl.Settle()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, calls, 2, "start and settle both notify")
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "superseded", Superseded.String())
	require.Equal(t, "unknown", Outcome(42).String())
}

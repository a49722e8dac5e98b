package crud

import (
	"context"
	"errors"
)

// Outcome reports how an asynchronous table operation ended.
type Outcome int

const (
	Pending Outcome = iota
	Applied
	Superseded
	Declined
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Applied:
		return "applied"
	case Superseded:
		return "superseded"
	case Declined:
		return "declined"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var errSuperseded = errors.New("crud: superseded by a newer search")

// Op is a handle on one asynchronous table operation.
type Op struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

func newOp() *Op { return &Op{done: make(chan struct{})} }

func finishedOp(outcome Outcome, err error) *Op {
	op := newOp()
	op.finish(outcome, err)
	return op
}

func (o *Op) finish(outcome Outcome, err error) {
	o.outcome = outcome
	o.err = err
	close(o.done)
}

// Done is closed once the operation has settled.
func (o *Op) Done() <-chan struct{} { return o.done }

// Outcome returns Pending until the operation settles.
func (o *Op) Outcome() Outcome {
	select {
	case <-o.done:
		return o.outcome
	default:
		return Pending
	}
}

// Err is non-nil only for Canceled operations.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the operation settles or ctx ends.
func (o *Op) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-o.done:
		return o.outcome, o.err
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
}

// outcomeOf maps the error a delayed task stopped with to its outcome.
func outcomeOf(err error) (Outcome, error) {
	switch {
	case err == nil:
		return Applied, nil
	case errors.Is(err, errSuperseded):
		return Superseded, nil
	default:
		return Canceled, err
	}
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/forensicdesk/internal/crud"
)

// bridge carries table change notifications and delete confirmations from
// table goroutines into the Bubble Tea loop. Exactly one wait command is
// outstanding at a time; the loop re-arms it after each message.
type bridge struct {
	ctx      context.Context
	changes  chan struct{}
	confirms chan confirmRequest
}

type confirmRequest struct {
	ctx    context.Context
	prompt crud.Prompt
	reply  chan bool
}

func newBridge(ctx context.Context) *bridge {
	return &bridge{
		ctx:      ctx,
		changes:  make(chan struct{}, 1),
		confirms: make(chan confirmRequest),
	}
}

// notify coalesces: a change already queued covers this one.
func (b *bridge) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// Confirm implements crud.Confirmer by handing the prompt to the UI loop and
// blocking until the user answers or ctx ends.
func (b *bridge) Confirm(ctx context.Context, p crud.Prompt) (bool, error) {
	req := confirmRequest{ctx: ctx, prompt: p, reply: make(chan bool, 1)}
	select {
	case b.confirms <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-b.ctx.Done():
		return false, b.ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.changes:
			return tableChangedMsg{}
		case req := <-b.confirms:
			return confirmRequestMsg{req: req}
		case <-b.ctx.Done():
			return nil
		}
	}
}

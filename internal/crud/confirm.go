package crud

import "context"

// Prompt is the text shown when a destructive action needs confirmation.
type Prompt struct {
	Title   string
	Content string
	OK      string
	Cancel  string
}

// DeletePrompt is asked before every Delete.
var DeletePrompt = Prompt{
	Title:   "确认删除",
	Content: "你确定要删除这条记录吗？此操作不可撤销",
	OK:      "确认",
	Cancel:  "取消",
}

// Confirmer asks the user to accept or decline a prompt. Implementations may
// block until the user answers; they must return when ctx ends.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// AutoConfirm accepts every prompt.
var AutoConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return true, nil })

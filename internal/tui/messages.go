package tui

import "github.com/jask/forensicdesk/internal/crud"

type tableChangedMsg struct{}

type confirmRequestMsg struct{ req confirmRequest }

// opDoneMsg reports a settled table operation. done is the status text shown
// when it applied.
type opDoneMsg struct {
	done    string
	outcome crud.Outcome
	err     error
}

type errMsg struct{ error }

type configSavedMsg struct{ path string }

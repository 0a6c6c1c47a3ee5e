package runner

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNonZeroExit Kind = iota + 1
	KindSpawnFailed
	KindTimedOut
)

var (
	ErrNonZeroExit = errors.New("command exited non-zero")
	ErrSpawnFailed = errors.New("command failed to start")
	ErrTimedOut    = errors.New("command timed out")
)

func (k Kind) String() string {
	switch k {
	case KindNonZeroExit:
		return "non-zero exit"
	case KindSpawnFailed:
		return "spawn failed"
	case KindTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// CommandError describes why a command did not succeed. Code is the exit
// status, or -1 when the process never started or was killed.
type CommandError struct {
	Kind Kind
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case KindNonZeroExit:
		return fmt.Sprintf("command exited with code %d", e.Code)
	case KindSpawnFailed:
		return fmt.Sprintf("command failed to start: %v", e.Err)
	case KindTimedOut:
		return fmt.Sprintf("command %v", e.Err)
	}
	return fmt.Sprintf("command error: %v", e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (e *CommandError) Is(target error) bool {
	switch target {
	case ErrNonZeroExit:
		return e.Kind == KindNonZeroExit
	case ErrSpawnFailed:
		return e.Kind == KindSpawnFailed
	case ErrTimedOut:
		return e.Kind == KindTimedOut
	}
	return false
}

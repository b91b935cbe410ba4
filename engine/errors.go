package engine

import (
	"fmt"

	"github.com/0xtyls/n-r-ai/types"
)

// IllegalActionError is returned by Apply when the action is not a member of
// LegalActions for the given state. The input state is never touched.
type IllegalActionError struct {
	Action types.Action
	Phase  types.Phase
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s in phase %s", e.Action.Kind, e.Phase)
}

// InvariantError reports a post-transition invariant failure. It signals a
// defect in the engine itself, not a recoverable game condition.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("state invariant violated: %v", e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

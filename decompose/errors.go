package decompose

import (
	"fmt"

	"github.com/bawdo/gosbee/nodes"
)

// DecompositionError is returned by Decompose, and wraps Analyze's Result.Err
// on failure. It always carries the query that could not be decomposed so a
// caller can report or retry against it.
type DecompositionError struct {
	Original *nodes.SelectCore
	Reason   string
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("decompose: %s", e.Reason)
}

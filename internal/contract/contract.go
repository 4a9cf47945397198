// Package contract implements the precondition checks of the vector package.
//
// Release builds compile every check away: Enabled is a constant false and the
// helpers return immediately. Building with the trivecdebug tag turns each
// violated precondition into a panic carrying a *Violation.
package contract

import (
	"errors"
	"fmt"
)

// ErrPrecondition is wrapped by every Violation.
var ErrPrecondition = errors.New("contract: precondition violated")

// Violation describes a failed precondition.
type Violation struct {
	Op     string
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPrecondition, v.Op, v.Detail)
}

func (v *Violation) Unwrap() error { return ErrPrecondition }

func fail(op, format string, args ...any) {
	panic(&Violation{Op: op, Detail: fmt.Sprintf(format, args...)})
}

// Index requires 0 <= i < n.
func Index(op string, i, n int) {
	if !Enabled {
		return
	}
	if i < 0 || i >= n {
		fail(op, "index %d out of range [0,%d)", i, n)
	}
}

// Position requires 0 <= pos <= n (an insertion point).
func Position(op string, pos, n int) {
	if !Enabled {
		return
	}
	if pos < 0 || pos > n {
		fail(op, "position %d out of range [0,%d]", pos, n)
	}
}

// Range requires 0 <= first <= last <= n.
func Range(op string, first, last, n int) {
	if !Enabled {
		return
	}
	if first < 0 || first > last || last > n {
		fail(op, "range [%d,%d) invalid for length %d", first, last, n)
	}
}

// NotEmpty requires n > 0.
func NotEmpty(op string, n int) {
	if !Enabled {
		return
	}
	if n <= 0 {
		fail(op, "empty container")
	}
}

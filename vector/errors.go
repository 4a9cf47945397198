package vector

import (
	"errors"

	"github.com/joshuapare/trivec/internal/contract"
	"github.com/joshuapare/trivec/internal/rawvec"
)

var (
	// ErrNotTriviallyCopyable is the panic value (wrapped) when a Vector is
	// built for an element type that contains pointers.
	ErrNotTriviallyCopyable = errors.New("vector: element type is not trivially copyable")

	// ErrNegativeCount indicates a negative size or capacity request.
	ErrNegativeCount = rawvec.ErrNegativeCount

	// ErrCapacityOverflow indicates a capacity too large to address.
	ErrCapacityOverflow = rawvec.ErrCapacityOverflow

	// ErrPrecondition is wrapped by the panics of trivecdebug builds.
	ErrPrecondition = contract.ErrPrecondition

	// ErrBadMagic indicates encoded data that does not start with "TVEC".
	ErrBadMagic = errors.New("vector: bad magic")

	// ErrItemSizeMismatch indicates encoded data written for a different element size.
	ErrItemSizeMismatch = errors.New("vector: item size mismatch")

	// ErrTruncated indicates encoded data shorter than its header claims.
	ErrTruncated = errors.New("vector: truncated data")
)

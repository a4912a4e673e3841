package radix

import (
	"errors"
	"fmt"
)

// ErrInvalidRange matches every *InvalidRangeError with errors.Is.
var ErrInvalidRange = errors.New("invalid sort range")

// RangeBound identifies which constraint of a sort range was violated.
type RangeBound uint8

const (
	// BoundFromNegative: fromIndex < 0.
	BoundFromNegative RangeBound = iota + 1
	// BoundToTooLarge: toIndex > length.
	BoundToTooLarge
	// BoundFromAfterTo: fromIndex > toIndex.
	BoundFromAfterTo
)

func (b RangeBound) String() string {
	switch b {
	case BoundFromNegative:
		return "from_negative"
	case BoundToTooLarge:
		return "to_too_large"
	case BoundFromAfterTo:
		return "from_after_to"
	default:
		return "unknown"
	}
}

// InvalidRangeError is returned when [fromIndex, toIndex) does not describe
// a valid range of the input slice.
//
// Value is the offending index. Limit is the bound it was checked against:
// 0 for a negative fromIndex, the slice length for a too large toIndex and
// toIndex when fromIndex exceeds it.
type InvalidRangeError struct {
	Bound RangeBound
	Value int
	Limit int
}

func (e *InvalidRangeError) Error() string {
	switch e.Bound {
	case BoundFromNegative:
		return fmt.Sprintf("fromIndex(%d) is negative. Must be at least %d.", e.Value, e.Limit)
	case BoundToTooLarge:
		return fmt.Sprintf("toIndex(%d) is too large. Must be at most %d.", e.Value, e.Limit)
	case BoundFromAfterTo:
		return fmt.Sprintf("fromIndex(%d) > toIndex(%d).", e.Value, e.Limit)
	default:
		return fmt.Sprintf("invalid range bound %d (value %d, limit %d)", e.Bound, e.Value, e.Limit)
	}
}

// Is reports whether target is ErrInvalidRange.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// CheckRange validates that 0 <= from <= to <= length.
// Checks run in a fixed order: negative from, to beyond length, from after to.
func CheckRange(length, from, to int) error {
	if from < 0 {
		return &InvalidRangeError{Bound: BoundFromNegative, Value: from, Limit: 0}
	}
	if to > length {
		return &InvalidRangeError{Bound: BoundToTooLarge, Value: to, Limit: length}
	}
	if from > to {
		return &InvalidRangeError{Bound: BoundFromAfterTo, Value: from, Limit: to}
	}
	return nil
}

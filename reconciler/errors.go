package reconciler

import "errors"

var (
	// ErrUnknownOrder -> the edit target's order is not in the collection.
	ErrUnknownOrder = errors.New("order not found in collection")

	// ErrItemIndexOutOfRange -> an item edit addressed an index the order
	// does not have.
	ErrItemIndexOutOfRange = errors.New("item index out of range")

	// ErrInvalidEditShape -> an item-level delta was sent through the
	// whole-order path or vice versa. Caller error, nothing is mutated.
	ErrInvalidEditShape = errors.New("edit fields do not match target shape")
)

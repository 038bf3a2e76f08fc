package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrReservedKey is returned when an atomic filter uses OrKey as its field.
	ErrReservedKey = errors.New("filter: reserved key used as field")
	// ErrUnsupportedValue is returned for values the wire format cannot carry.
	ErrUnsupportedValue = errors.New("filter: unsupported value")
	// ErrUnknownOperator is returned for comparisons outside the operator table.
	ErrUnknownOperator = errors.New("filter: unknown operator")
)

// SerializationError reports a filter value that could not be encoded.
type SerializationError struct {
	Key Key
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("filter: encode %q: %v", string(e.Key), e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

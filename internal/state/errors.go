package state

import "errors"

var (
	// ErrCycle is returned when a field is set again while its own cascade is running.
	ErrCycle = errors.New("field set during its own cascade")
	// ErrDerived is returned when a derived field is set directly.
	ErrDerived = errors.New("derived field cannot be set")
	// ErrConst is returned when a field defined with Const is set.
	ErrConst = errors.New("field is fixed at definition")
	// ErrUnknownField is returned by name-based access to a field that was never defined.
	ErrUnknownField = errors.New("unknown field")
	// ErrType is returned by name-based Set when the value has the wrong type.
	ErrType = errors.New("wrong value type for field")
)

package template

import (
	"errors"
	"fmt"
)

// ErrConsumed matches every *ConsumedError through errors.Is.
var ErrConsumed = errors.New("construction already consumed")

// ConsumedError is the panic value raised when a construction is used after
// Create or Build consumed it.
type ConsumedError struct {
	Component string
	Op        OperationKind
}

func (e *ConsumedError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Component, ErrConsumed)
	}
	return fmt.Sprintf("%s: %v", e.Op, ErrConsumed)
}

func (e *ConsumedError) Is(target error) bool {
	return target == ErrConsumed
}

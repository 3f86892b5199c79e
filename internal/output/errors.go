package output

import (
	"errors"
	"fmt"
)

// Operations named by Error
const (
	OpWrite  = "write"
	OpDelete = "delete"
)

var (
	ErrWriteFailed  = errors.New("write failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// Error is a failure to persist or remove one artifact
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrWriteFailed or ErrDeleteFailed according to Op
func (e *Error) Is(target error) bool {
	switch e.Op {
	case OpWrite:
		return target == ErrWriteFailed
	case OpDelete:
		return target == ErrDeleteFailed
	}
	return false
}

package applescene

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEntityExists     = errors.New("an entity with this id already exists")
	ErrInvalidEntity    = errors.New("invalid entity document")
	ErrInvalidEntityID  = errors.New("entity id must be a plain file name")
	ErrParentCycle      = errors.New("parent assignment would create a cycle")
	ErrResourceMissing  = errors.New("required resource is missing")
	ErrSceneExists      = errors.New("a scene already exists in this directory")
	ErrMalformedBinding = errors.New("malformed key binding")
	ErrUnknownComponent = errors.New("unknown component type")
	ErrDisposed         = errors.New("command stream is disposed")
)

// ErrorType categorizes editor errors.
type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeResource ErrorType = "resource"
	ErrorTypeScene    ErrorType = "scene"
	ErrorTypeCommand  ErrorType = "command"
)

// EditorError carries a category and context around an underlying cause.
type EditorError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *EditorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// Is matches another *EditorError of the same Type.
func (e *EditorError) Is(target error) bool {
	t, ok := target.(*EditorError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func NewParseError(message string, err error) *EditorError {
	return &EditorError{Type: ErrorTypeParse, Message: message, Err: err}
}

// NewResourceError marks a startup failure that makes the editor unusable.
func NewResourceError(message string, err error) *EditorError {
	return &EditorError{Type: ErrorTypeResource, Message: message, Err: err}
}

func NewSceneError(message string, err error) *EditorError {
	return &EditorError{Type: ErrorTypeScene, Message: message, Err: err}
}

func NewCommandError(message string, err error) *EditorError {
	return &EditorError{Type: ErrorTypeCommand, Message: message, Err: err}
}

// IsFatal reports whether err should halt editor initialization.
func IsFatal(err error) bool {
	return errors.Is(err, ErrResourceMissing) || errors.Is(err, &EditorError{Type: ErrorTypeResource})
}

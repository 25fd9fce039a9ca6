package flagdef

import (
	"errors"
	"fmt"
)

var (
	ErrRequiredSwitch = errors.New("required flag set for option that doesn't take a value")
	ErrDuplicate      = errors.New("flag defined more than once")
	ErrNoName         = errors.New("flag has no name")
	ErrLongShorthand  = errors.New("shorthand is more than one character")
)

// DefinitionError is raised by New for an invalid flag definition.
type DefinitionError struct {
	Flag Flag
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("option %s: %s", e.Flag, e.Err)
}
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// UsageError wraps a tokenizer failure such as an unknown flag or a missing value.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}
func (e *UsageError) Unwrap() error {
	return e.Err
}

type MissingError struct {
	Flag Flag
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not supplied", e.Flag)
}

// IsUsage reports whether err is a command line mistake rather than a
// failure of the work the command does.
func IsUsage(err error) bool {
	var ue *UsageError
	var me *MissingError
	return errors.As(err, &ue) || errors.As(err, &me)
}

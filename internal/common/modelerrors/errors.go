// Package modelerrors contains the typed errors shared by the generator and the loader.
//
// When several things are wrong at once (e.g., a configuration with multiple invalid fields),
// functions return a *multierror.Error from github.com/hashicorp/go-multierror wrapping the
// individual errors defined here.
package modelerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned when a configuration value or a distribution profile is invalid.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "usersPerBatch"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for field %q", err.Value, err.Name)
	}
	return fmt.Sprintf("value %v is invalid for field %q; %s", err.Value, err.Name, err.Message)
}

// ErrNotFound is returned whenever some resource isn't found, e.g. a batch file on disk.
// Type and Message are optional and are omitted from the error message if not provided.
type ErrNotFound struct {
	Type    string // Resource type, e.g., "batch file"
	Value   string // Resource name, e.g., "scripts/users/0.txt"
	Message string
}

func (err *ErrNotFound) Error() (s string) {
	if err.Type != "" {
		s = fmt.Sprintf("resource %q of type %q does not exist", err.Value, err.Type)
	} else {
		s = fmt.Sprintf("resource %q does not exist", err.Value)
	}
	if err.Message != "" {
		return s + fmt.Sprintf("; %s", err.Message)
	}
	return s
}

// IsNotFound reports whether any error in err's chain is an *ErrNotFound.
func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

// IsInvalidArgument reports whether any error in err's chain is an *ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	var e *ErrInvalidArgument
	return errors.As(err, &e)
}

// Package errors provides standardized error handling for tagdesk.
// It defines the error kinds shared by the tag store, the image navigator and
// the AI taggers, plus helpers for consistent creation, wrapping and checking.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// NotFound is returned when a file or tag that must exist is absent.
	NotFound
	// IOFailure is a read or write that could not complete.
	IOFailure
	// DuplicateConflict is an edit that would create a duplicate tag.
	DuplicateConflict
	// InvalidInput covers blank paths, blank tags and delimiter collisions.
	InvalidInput
	// ModelUnavailable means a tagger backend cannot be constructed.
	ModelUnavailable
	// ModelFailed means a tagger backend ran and failed.
	ModelFailed
	// InvalidConfig is a configuration that failed validation.
	InvalidConfig
	// Busy is returned when a tagging task is already running.
	Busy
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case IOFailure:
		return "io failure"
	case DuplicateConflict:
		return "duplicate"
	case InvalidInput:
		return "invalid input"
	case ModelUnavailable:
		return "model unavailable"
	case ModelFailed:
		return "model error"
	case InvalidConfig:
		return "invalid config"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// Common error constants for frequently occurring errors
var (
	ErrInvalidPath      = NewFileError("invalid image path", "", InvalidInput, nil)
	ErrInvalidTag       = NewTagError("invalid tag", "", InvalidInput, nil)
	ErrDuplicateTag     = NewTagError("tag already exists", "", DuplicateConflict, nil)
	ErrTagNotFound      = NewTagError("tag not found", "", NotFound, nil)
	ErrModelUnavailable = NewModelError("model unavailable", "", ModelUnavailable, nil)
	ErrInvalidConfig    = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to image or sidecar files
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// TagError represents errors about a single tag value
type TagError struct {
	ApplicationError
	tag string
}

// NewTagError creates a new tag error
func NewTagError(msg string, tag string, kind ErrorKind, err error) *TagError {
	return &TagError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		tag: tag,
	}
}

// Error returns the tag error message
func (e *TagError) Error() string {
	if e.tag != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %q: %v", e.msg, e.tag, e.err)
		}
		return fmt.Sprintf("%s: %q", e.msg, e.tag)
	}
	return e.ApplicationError.Error()
}

// Tag returns the tag value associated with the error
func (e *TagError) Tag() string {
	return e.tag
}

// ModelError represents errors raised by an AI tagger backend
type ModelError struct {
	ApplicationError
	model string
}

// NewModelError creates a new model error
func NewModelError(msg string, model string, kind ErrorKind, err error) *ModelError {
	return &ModelError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		model: model,
	}
}

// Error returns the model error message
func (e *ModelError) Error() string {
	if e.model != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.model, e.msg, e.err)
		}
		return fmt.Sprintf("%s: %s", e.model, e.msg)
	}
	return e.ApplicationError.Error()
}

// Model returns the model name associated with the error
func (e *ModelError) Model() string {
	return e.model
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the first non-Unknown kind found in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

// IsIOFailure checks if the error is an I/O failure
func IsIOFailure(err error) bool {
	return KindOf(err) == IOFailure
}

// IsDuplicate checks if the error is a duplicate tag conflict
func IsDuplicate(err error) bool {
	return KindOf(err) == DuplicateConflict
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return KindOf(err) == InvalidInput
}

// IsModelError checks if the error came from a tagger backend, either
// because it could not be loaded or because inference failed
func IsModelError(err error) bool {
	k := KindOf(err)
	return k == ModelFailed || k == ModelUnavailable
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return KindOf(err) == InvalidConfig
}

// IsBusy checks if the error reports an already running task
func IsBusy(err error) bool {
	return KindOf(err) == Busy
}

// Package errors provides the structured error types used across the ATOM
// model-fitting core. The taxonomy follows the library's user-facing contract:
// configuration errors surface before any work starts, capability errors
// surface before any computation, and evaluation failures propagate with
// their root cause intact.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NotFittedError is returned when Predict, Scoring or a related accessor is
// called before the model has been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("atom: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValidationError reports an invalid parameter value detected before any work
// starts. It covers the configuration-error class: call budgets, initial-point
// counts, bagging rounds, stopper thresholds and metric names.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("atom: invalid value for the %s parameter: %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unusable for the operation,
// for example an empty target vector or a non-column matrix.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("atom: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between two inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("atom: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// CapabilityError is returned when an estimator lacks a requested prediction
// method, such as PredictProba on a model without probability estimates.
type CapabilityError struct {
	EstimatorName string
	Method        string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("atom: the %s estimator doesn't have a %s method", e.EstimatorName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *CapabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.EstimatorName).
		Str("method", e.Method).
		Str("type", "CapabilityError")
}

// NewCapabilityError creates a CapabilityError with a stack trace attached.
func NewCapabilityError(estimator, method string) error {
	err := &CapabilityError{EstimatorName: estimator, Method: method}
	return errors.WithStack(err)
}

// PermissionError is returned when an operation is not available for the
// current task, such as probability calibration on a regression goal.
type PermissionError struct {
	Op      string
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("atom: %s: %s", e.Op, e.Message)
}

// NewPermissionError creates a PermissionError with a stack trace attached.
func NewPermissionError(op, message string) error {
	err := &PermissionError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError wraps a failure inside an estimator operation. The wrapped error
// stays reachable through Unwrap so the root cause of an evaluation failure
// is never hidden.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("atom: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("atom: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// cockroachdb/errors passthroughs, so callers only import this package.

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix inversion fails.
	ErrSingularMatrix = New("singular matrix")
)

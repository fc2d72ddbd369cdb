package errors

import (
	"errors"
	"fmt"
	"time"
)

// Category classifies engine errors by how they are recovered.
type Category string

const (
	// Fatal at startup, never recovered silently.
	CategoryConfiguration Category = "CONFIG"

	// Contained to a single bar/tick; the loop continues.
	CategoryHistory   Category = "HISTORY"
	CategoryData      Category = "DATA"
	CategoryIndicator Category = "INDICATOR"

	// Collaborator-boundary errors; logged, cycle skipped.
	CategoryFetch  Category = "FETCH"
	CategoryNotify Category = "NOTIFY"
)

// EngineError is a categorized error with component context.
type EngineError struct {
	Category   Category
	Component  string
	Message    string
	Underlying error
}

func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether this error should abort the whole run.
// Only configuration errors are fatal; everything else is contained
// to the bar or tick that produced it.
func (e *EngineError) IsFatal() bool {
	return e.Category == CategoryConfiguration
}

// NewConfigError creates a startup configuration error. The underlying
// error may be nil.
func NewConfigError(component, message string, underlying error) *EngineError {
	return &EngineError{Category: CategoryConfiguration, Component: component, Message: message, Underlying: underlying}
}

// WrapFetchError wraps a market-data collaborator failure.
func WrapFetchError(component string, err error) *EngineError {
	return &EngineError{Category: CategoryFetch, Component: component, Message: "fetch failed", Underlying: err}
}

// WrapNotifyError wraps a notification collaborator failure.
func WrapNotifyError(component string, err error) *EngineError {
	return &EngineError{Category: CategoryNotify, Component: component, Message: "notify failed", Underlying: err}
}

// InsufficientHistoryError signals a window shorter than the required
// lookback. Recovered locally by skipping the evaluation, never fatal.
type InsufficientHistoryError struct {
	Required int
	Actual   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: need %d bars, have %d", e.Required, e.Actual)
}

// NewInsufficientHistory creates an InsufficientHistoryError.
func NewInsufficientHistory(required, actual int) *InsufficientHistoryError {
	return &InsufficientHistoryError{Required: required, Actual: actual}
}

// IsInsufficientHistory reports whether err is an insufficient-history error.
func IsInsufficientHistory(err error) bool {
	var ih *InsufficientHistoryError
	return errors.As(err, &ih)
}

// InvalidBarError describes a bar rejected during series validation:
// an OHLC invariant violation or a non-monotonic timestamp. The bar is
// excluded and the rest of the series continues to process.
type InvalidBarError struct {
	Index     int
	Timestamp time.Time
	Reason    string
}

func (e *InvalidBarError) Error() string {
	return fmt.Sprintf("invalid bar at index %d (%s): %s", e.Index, e.Timestamp.Format(time.RFC3339), e.Reason)
}

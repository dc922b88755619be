package krona

import "errors"

// Errors reported by the mapper review operations.
var (
	// ErrUnknownSuggestion is returned when accepting or declining a
	// (symbol, canonical) pair no strategy proposed.
	ErrUnknownSuggestion = errors.New("unknown suggestion")
	// ErrSuggestionFinalized is returned when changing a decision that was
	// already accepted into the mapping.
	ErrSuggestionFinalized = errors.New("suggestion already accepted")
	// ErrCircularMapping is returned when an accepted mapping would lead a
	// symbol back to itself.
	ErrCircularMapping = errors.New("circular mapping")
)

// Errors reported by Position.Apply and the processor.
var (
	ErrOutOfOrderTransaction      = errors.New("out of order transaction")
	ErrInsufficientQuantity       = errors.New("insufficient quantity")
	ErrInvalidTransactionForState = errors.New("invalid transaction for position state")
	ErrMalformedTransaction       = errors.New("malformed transaction")
)

// ErrorKind classifies a processing failure for reporting.
type ErrorKind string

const (
	KindUnknownSuggestion          ErrorKind = "UnknownSuggestion"
	KindOutOfOrderTransaction      ErrorKind = "OutOfOrderTransaction"
	KindInsufficientQuantity       ErrorKind = "InsufficientQuantity"
	KindInvalidTransactionForState ErrorKind = "InvalidTransactionForState"
	KindMalformedTransaction       ErrorKind = "MalformedTransaction"
	KindUnknown                    ErrorKind = "Unknown"
)

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnknownSuggestion):
		return KindUnknownSuggestion
	case errors.Is(err, ErrOutOfOrderTransaction):
		return KindOutOfOrderTransaction
	case errors.Is(err, ErrInsufficientQuantity):
		return KindInsufficientQuantity
	case errors.Is(err, ErrInvalidTransactionForState):
		return KindInvalidTransactionForState
	case errors.Is(err, ErrMalformedTransaction):
		return KindMalformedTransaction
	default:
		return KindUnknown
	}
}

package ai

import (
	"errors"
	"strings"
)

var (
	// ErrCommunication covers transport, authentication and empty-response failures.
	ErrCommunication = errors.New("failed to communicate with the AI model")
	// ErrMalformedResponse means the model text did not parse as JSON.
	ErrMalformedResponse = errors.New("AI model returned malformed JSON")
	// ErrInvalidItinerary means the JSON parsed but did not satisfy the itinerary contract.
	ErrInvalidItinerary = errors.New("AI model returned an invalid itinerary")
)

// ValidationError lists every contract violation found in a decoded response.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidItinerary.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidItinerary }

type FailureKind string

const (
	FailureCommunication     FailureKind = "communication"
	FailureMalformedResponse FailureKind = "malformed_response"
	FailureInvalidItinerary  FailureKind = "invalid_itinerary"
)

// Classify maps a generation error onto its failure kind. Unknown errors count as communication failures.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrInvalidItinerary):
		return FailureInvalidItinerary
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformedResponse
	default:
		return FailureCommunication
	}
}

package llm

import "errors"

var (
	// ErrProviderUnavailable indicates the model server is unreachable.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrStreamInterrupted indicates the stream ended without a done marker.
	ErrStreamInterrupted = errors.New("llm stream ended before completion")

	// ErrUnknownProvider indicates a provider name with no client implementation.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

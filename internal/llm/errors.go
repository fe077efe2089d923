package llm

import "errors"

var (
	// ErrUnavailable: the model server could not be reached.
	ErrUnavailable = errors.New("llm server unavailable")

	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput: the reply did not contain the expected JSON object.
	ErrInvalidOutput = errors.New("invalid llm output format")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrDisabled is returned by the disabled client without any network call.
	ErrDisabled = errors.New("llm suggestions disabled")
)

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrDisabled):
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

package movies

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrMalformedBody is returned when a non-empty request body is not a JSON object.
var ErrMalformedBody = errors.New("malformed body")

// MissingFieldError reports a required body field that is absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// WriteError wraps a failed PutItem call.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("put item into %q: %s", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrorKind returns the category logged as error_type for err. Write
// failures report the DynamoDB error code when there is one.
func ErrorKind(err error) string {
	var (
		missing *MissingFieldError
		write   *WriteError
		apiErr  smithy.APIError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedBody):
		return "MalformedBody"
	case errors.As(err, &missing):
		return "MissingField"
	case errors.As(err, &write):
		if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
			return apiErr.ErrorCode()
		}
		return "WriteFailure"
	default:
		return "Error"
	}
}

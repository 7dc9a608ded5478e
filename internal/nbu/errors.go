package nbu

import (
	"fmt"
)

// maxLoggedBody bounds how much of an unexpected response body is kept for diagnosis.
const maxLoggedBody = 500

// ValidationError reports an upstream record that does not fit the ExchangeRate model.
// Index is the position of the record in the response array, or -1 when unknown.
type ValidationError struct {
	Index  int
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("nbu: record %d: field %s: %s (got %v)", e.Index, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("nbu: field %s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("nbu: %s returned %s", e.URL, e.Status)
}

// DecodeError is returned when the response body is not the JSON we expect.
// Body holds at most the first 500 bytes. When the body decoded but has the
// wrong shape, StatusCode and ContentType are zero and Body is the decoded
// value re-encoded.
type DecodeError struct {
	StatusCode  int
	ContentType string
	Body        string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("nbu: decode response (status %d, content-type %q): %v", e.StatusCode, e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EmptyResponseError is returned for a successful response carrying no data.
// An empty payload is a fetch failure, never "zero rates today".
type EmptyResponseError struct {
	URL string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("nbu: empty response from %s", e.URL)
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody])
	}
	return string(body)
}

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a structured rejection from the backend: per-field message
// arrays plus non-field errors, as serialized by django-rest-auth. A
// response with an unparseable body still yields an *Error, just without
// messages; only transport-level failures are reported as plain errors.
type Error struct {
	// StatusCode is the HTTP status of the rejected request.
	StatusCode int
	// Fields maps field names to their server-side messages.
	Fields map[string][]string
	// NonField holds general rejection reasons not tied to a field.
	NonField []string
}

func (e *Error) Error() string {
	if len(e.NonField) > 0 {
		return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.NonField[0])
	}
	for name, msgs := range e.Fields {
		if len(msgs) > 0 {
			return fmt.Sprintf("server rejected request (%d): %s: %s", e.StatusCode, name, msgs[0])
		}
	}
	return fmt.Sprintf("server rejected request (%d)", e.StatusCode)
}

// FirstNonField returns the first non-field error message, or "".
func (e *Error) FirstNonField() string {
	if len(e.NonField) > 0 {
		return e.NonField[0]
	}
	return ""
}

// Field returns the first message recorded for the named field, or "".
func (e *Error) Field(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// decodeError turns a non-2xx response into an *Error. Field values may
// be single strings or arrays of strings; both forms are accepted.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode, Fields: map[string][]string{}}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for name, val := range raw {
		var msgs []string
		if err := json.Unmarshal(val, &msgs); err != nil {
			var single string
			if err := json.Unmarshal(val, &single); err != nil {
				continue
			}
			msgs = []string{single}
		}
		if strings.EqualFold(name, "non_field_errors") {
			apiErr.NonField = msgs
			continue
		}
		apiErr.Fields[name] = msgs
	}
	return apiErr
}

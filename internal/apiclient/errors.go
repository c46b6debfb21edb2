package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

// NetworkErrorMessage is shown when the remote API could not be reached.
const NetworkErrorMessage = "Unable to reach the server. Please check your connection and try again."

// Error is the single normalized failure returned by every Client call.
// Status is zero for transport failures.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a remote rejection of the caller's
// credentials or token.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsTransport reports whether err is a failure to reach the remote API.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// Message returns the user-facing text for err, or fallback when err carries
// nothing usable.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// messageFields are probed in order before falling back to field errors.
var messageFields = []string{"message", "detail", "error"}

// extractMessage pulls a message out of an error body. JSON bodies are probed
// for message, detail and error, then for the first field holding a list of
// validation messages. Anything else falls back to the status text.
func extractMessage(status int, body []byte, isJSON bool) string {
	if isJSON && len(body) > 0 {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			if msg := probeMessage(decoded); msg != "" {
				return msg
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Request failed"
}

func probeMessage(decoded any) string {
	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		return firstString(v)
	case map[string]any:
		for _, field := range messageFields {
			if msg := stringOrFirst(v[field]); msg != "" {
				return msg
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			list, ok := v[k].([]any)
			if !ok {
				continue
			}
			msg := firstString(list)
			if msg == "" {
				continue
			}
			if k == "non_field_errors" {
				return msg
			}
			return k + ": " + msg
		}
	}
	return ""
}

func stringOrFirst(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		return firstString(t)
	}
	return ""
}

func firstString(list []any) string {
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorKind represents the category of a failed backend call.
type ErrorKind int

const (
	// KindTransient indicates the service could not be reached or returned a
	// 5xx. These failures are retried automatically by the list-load flow
	// (and only there).
	KindTransient ErrorKind = iota
	// KindAuthorization indicates HTTP 401/403. Never retried automatically.
	KindAuthorization
	// KindHTTP indicates any other non-2xx status.
	KindHTTP
	// KindParse indicates a malformed response body.
	KindParse
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "Service Unavailable"
	case KindAuthorization:
		return "Authorization Error"
	case KindHTTP:
		return "HTTP Error"
	case KindParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error represents a failed backend call, classified for the layers above.
// Views never look at StatusCode; they go through the Is* helpers.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // HTTP status code (0 for transport failures)
	Message    string // server-provided message, when the body carried one
	Err        error  // underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// errorBody is the JSON error envelope the backend uses.
type errorBody struct {
	Message string `json:"message"`
}

// classifyStatus turns a non-2xx response into an Error, lifting the server's
// message field out of the body when present.
func classifyStatus(statusCode int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	kind := KindHTTP
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = KindAuthorization
	case statusCode >= 500:
		kind = KindTransient
	}

	return &Error{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    eb.Message,
	}
}

// classifyTransport turns a transport-level failure (no HTTP response at all)
// into a transient Error. Timeouts, refused connections, DNS failures and
// unreachable networks all land here.
func classifyTransport(err error) *Error {
	// Unwrap url.Error so the checks below see the real cause
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	msg := "service unreachable"
	switch {
	case os.IsTimeout(err):
		msg = "request timed out"
	case errors.Is(err, syscall.ECONNREFUSED):
		msg = "connection refused"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		msg = "host unreachable"
	default:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			msg = "cannot resolve host"
		}
	}

	return &Error{Kind: KindTransient, Message: msg, Err: err}
}

// newParseError creates a parse error for a malformed response body.
func newParseError(err error) *Error {
	return &Error{Kind: KindParse, Message: "failed to parse response", Err: err}
}

// IsAuthorization reports whether err is a 401/403 from the backend.
func IsAuthorization(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuthorization
}

// IsTransient reports whether err means the service is unreachable or failing
// (network error or 5xx) - the only class the list-load flow retries.
func IsTransient(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransient
}

// IsForbidden reports whether err is specifically HTTP 403, which write
// actions translate into an ownership message.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsUnreachable reports whether err is a transport failure with no HTTP
// response at all. The login flow gives these a dedicated message.
func IsUnreachable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransient && apiErr.StatusCode == 0
}

// ServerMessage returns the backend's message field for err, or "".
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

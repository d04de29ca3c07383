// Package api is the typed transport boundary to the advice-board backend.
//
// Client wraps a plain http.Client: it serializes bodies as JSON against a
// fixed API root and attaches "Authorization: Bearer <token>" when the
// injected TokenSource has a token. One exported method exists per backend
// operation; each takes already-validated parameters and returns the decoded
// entity or a classified *Error. No business validation and no retry or
// backoff logic lives here - validation belongs to the advice package's
// action helpers, retry scheduling to its loader.
//
// # Error classification
//
// Failures are classified into kinds the layers above can act on without
// ever reading HTTP status codes themselves:
//   - KindAuthorization: 401/403
//   - KindTransient: transport failure or 5xx (the only retried class)
//   - KindHTTP: any other non-2xx, carrying the server's message field
//   - KindParse: malformed response body
package api

// Package session manages the persisted bearer token for the adviceboard client.
//
// A session is a single opaque token string stored in a file under the app
// config directory. Presence of the file is the only authentication signal the
// UI checks. The token payload (a JWT) is decoded locally, without signature
// verification, purely to surface the user's display name and to mirror
// ownership checks in the UI - the backend stays authoritative for all
// authorization.
package session

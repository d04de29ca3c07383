// Package domain holds the advice-board entities shared by the API client,
// the action helpers, and the views: Advice, Reply, and the Author reference.
//
// Entities are created and destroyed only via backend calls; the client never
// invents identifiers. Local state reconciles by replacing whole entities with
// the server's response, never by merging.
package domain

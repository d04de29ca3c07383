package domain

import (
	"encoding/json"
	"fmt"
)

// Author identifies who created an advice or reply. The backend sends either
// a bare user id string or an embedded {_id, username} document, depending on
// whether the reference was populated. Both decode into this one type so the
// rest of the client never type-switches on the wire shape.
type Author struct {
	ID   string
	Name string // empty when the reference was not populated
}

// authorDoc is the embedded wire form.
type authorDoc struct {
	ID   string `json:"_id"`
	Name string `json:"username"`
}

// UnmarshalJSON accepts a string id, an embedded document, or null.
func (a *Author) UnmarshalJSON(data []byte) error {
	// Bare id string
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		a.ID = id
		a.Name = ""
		return nil
	}

	// null: no author reference at all
	if string(data) == "null" {
		*a = Author{}
		return nil
	}

	var doc authorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("author is neither an id string nor an embedded user: %w", err)
	}
	a.ID = doc.ID
	a.Name = doc.Name
	return nil
}

// MarshalJSON writes the same shape back out: a bare id unless the embedded
// form carried a display name.
func (a Author) MarshalJSON() ([]byte, error) {
	if a.Name == "" {
		return json.Marshal(a.ID)
	}
	return json.Marshal(authorDoc{ID: a.ID, Name: a.Name})
}

// Label resolves the display string for an author. When anonymous is set the
// author identity is never revealed, regardless of what the reference
// contains.
func (a Author) Label(anonymous bool) string {
	if anonymous {
		return "Anonymous"
	}
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return "User " + a.ID
	}
	return "User"
}

// Linkable reports whether the author can be linked to a user posts page:
// an id must be known and the entity must not be anonymous.
func (a Author) Linkable(anonymous bool) bool {
	return !anonymous && a.ID != ""
}

package domain

import "time"

// Advice is a posted question/advice item, the primary content entity.
// Field tags follow the backend's wire names (_id, _createdBy, _isMine).
type Advice struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Anonymous bool      `json:"anonymous"`
	CreatedBy Author    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`

	// IsMine is computed server-side for the caller's session.
	IsMine bool `json:"_isMine,omitempty"`

	Replies []Reply `json:"replies"`
}

// Reply is a response attached to an Advice. Reply ids are unique within
// their parent advice, not globally.
type Reply struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Anonymous bool      `json:"anonymous"`
	CreatedBy Author    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdviceForm is the user input for creating or updating an advice.
type AdviceForm struct {
	Title     string `validate:"min=3"`
	Content   string `validate:"min=3"`
	Anonymous bool
}

// ReplyForm is the user input for creating or updating a reply.
type ReplyForm struct {
	Content   string `validate:"min=3"`
	Anonymous bool
}

// FindReply returns the reply with the given id, or nil.
func (a *Advice) FindReply(replyID string) *Reply {
	for i := range a.Replies {
		if a.Replies[i].ID == replyID {
			return &a.Replies[i]
		}
	}
	return nil
}

// ReplaceWith swaps the advice in the slice whose id matches the update.
// Used to reconcile local state with a server response without a full reload;
// the entity is replaced, never merged.
func ReplaceWith(advices []Advice, updated Advice) []Advice {
	for i := range advices {
		if advices[i].ID == updated.ID {
			advices[i] = updated
			return advices
		}
	}
	return advices
}

// OnlyMine keeps the advices the server marked as owned by the caller's
// session.
func OnlyMine(advices []Advice) []Advice {
	var out []Advice
	for _, a := range advices {
		if a.IsMine {
			out = append(out, a)
		}
	}
	return out
}

// RemoveByID drops the advice with the given id from the slice.
func RemoveByID(advices []Advice, id string) []Advice {
	out := advices[:0]
	for _, a := range advices {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

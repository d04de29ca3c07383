package api

import (
	"context"
	"net/url"

	"github.com/adviceboard/adviceboard/internal/domain"
)

// replyPayload is the write body for adding or updating a reply.
type replyPayload struct {
	Content   string `json:"content"`
	Anonymous bool   `json:"anonymous"`
}

func replyPath(adviceID, replyID string) string {
	p := "/advices/" + url.PathEscape(adviceID) + "/replies"
	if replyID != "" {
		p += "/" + url.PathEscape(replyID)
	}
	return p
}

// AddReply attaches a reply to an advice. The server returns the parent
// advice with the new reply embedded, so callers can reconcile local state
// without a reload.
func (c *Client) AddReply(ctx context.Context, adviceID, content string, anonymous bool) (*domain.Advice, error) {
	var advice domain.Advice
	payload := replyPayload{Content: content, Anonymous: anonymous}
	if err := c.post(ctx, replyPath(adviceID, ""), payload, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

// UpdateReply edits a reply and returns the updated parent advice.
func (c *Client) UpdateReply(ctx context.Context, adviceID, replyID, content string, anonymous bool) (*domain.Advice, error) {
	var advice domain.Advice
	payload := replyPayload{Content: content, Anonymous: anonymous}
	if err := c.put(ctx, replyPath(adviceID, replyID), payload, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

// DeleteReply removes a reply from an advice.
func (c *Client) DeleteReply(ctx context.Context, adviceID, replyID string) error {
	return c.del(ctx, replyPath(adviceID, replyID))
}

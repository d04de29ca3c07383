package api

import (
	"context"
	"net/url"

	"github.com/adviceboard/adviceboard/internal/domain"
)

// advicePayload is the write body for create/update. The author is attached
// server-side from the bearer token; the client only sends content fields.
type advicePayload struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Anonymous bool   `json:"anonymous"`
}

// ListAdvices fetches all advices. The server embeds _isMine per item for the
// caller's session.
func (c *Client) ListAdvices(ctx context.Context) ([]domain.Advice, error) {
	var advices []domain.Advice
	if err := c.get(ctx, "/advices", nil, &advices); err != nil {
		return nil, err
	}
	return advices, nil
}

// GetAdvice fetches a single advice with its replies.
func (c *Client) GetAdvice(ctx context.Context, id string) (*domain.Advice, error) {
	var advice domain.Advice
	if err := c.get(ctx, "/advices/"+url.PathEscape(id), nil, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

// ListAdvicesByUser fetches the advices created by one user.
func (c *Client) ListAdvicesByUser(ctx context.Context, userID string) ([]domain.Advice, error) {
	var advices []domain.Advice
	if err := c.get(ctx, "/advices/user/"+url.PathEscape(userID), nil, &advices); err != nil {
		return nil, err
	}
	return advices, nil
}

// SearchAdvices performs a server-side filtered fetch. The query values are
// built by the advice package's Filter (q+fields or key/value form).
func (c *Client) SearchAdvices(ctx context.Context, query url.Values) ([]domain.Advice, error) {
	var advices []domain.Advice
	if err := c.get(ctx, "/advices/search", query, &advices); err != nil {
		return nil, err
	}
	return advices, nil
}

// CreateAdvice creates a new advice and returns the server's entity.
func (c *Client) CreateAdvice(ctx context.Context, title, content string, anonymous bool) (*domain.Advice, error) {
	var advice domain.Advice
	payload := advicePayload{Title: title, Content: content, Anonymous: anonymous}
	if err := c.post(ctx, "/advices", payload, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

// UpdateAdvice updates an existing advice and returns the server's entity.
func (c *Client) UpdateAdvice(ctx context.Context, id, title, content string, anonymous bool) (*domain.Advice, error) {
	var advice domain.Advice
	payload := advicePayload{Title: title, Content: content, Anonymous: anonymous}
	if err := c.put(ctx, "/advices/"+url.PathEscape(id), payload, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

// DeleteAdvice deletes an advice by id.
func (c *Client) DeleteAdvice(ctx context.Context, id string) error {
	return c.del(ctx, "/advices/"+url.PathEscape(id))
}

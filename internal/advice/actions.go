package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adviceboard/adviceboard/internal/api"
	"github.com/adviceboard/adviceboard/internal/domain"
	"github.com/adviceboard/adviceboard/internal/logging"
)

// ValidationError is a local, pre-network failure with a message meant for
// the user. No request is issued when validation fails.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrCancelled marks a destructive action the user declined to confirm.
// It is a silent no-op, not a failure: callers drop it without surfacing
// anything.
var ErrCancelled = errors.New("action cancelled")

// IsCancelled reports whether err is a declined confirmation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// ConfirmFunc obtains interactive confirmation for a destructive action.
// Returning false aborts the action with ErrCancelled.
type ConfirmFunc func(prompt string) bool

// Actions validates input, calls the API, and translates failures into
// user-facing messages. It sits between the views and the transport; views
// never see raw HTTP statuses.
type Actions struct {
	client   *api.Client
	confirm  ConfirmFunc
	validate *validator.Validate
}

// NewActions creates the action helpers. confirm may be nil, in which case
// destructive actions proceed without prompting (used by --yes in the CLI).
func NewActions(client *api.Client, confirm ConfirmFunc) *Actions {
	return &Actions{
		client:   client,
		confirm:  confirm,
		validate: validator.New(),
	}
}

// validateAdviceForm trims the form in place and checks the length rules.
func (a *Actions) validateAdviceForm(form *domain.AdviceForm) error {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)

	if err := a.validate.Struct(form); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			switch fields[0].Field() {
			case "Title":
				return &ValidationError{Message: "Title must be at least 3 characters"}
			default:
				return &ValidationError{Message: "Content must be at least 3 characters"}
			}
		}
		return err
	}
	return nil
}

// validateReplyForm trims the reply and checks the length rule.
func (a *Actions) validateReplyForm(form *domain.ReplyForm) error {
	form.Content = strings.TrimSpace(form.Content)

	if err := a.validate.Struct(form); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return &ValidationError{Message: "Reply must be at least 3 characters"}
		}
		return err
	}
	return nil
}

// translate maps an API failure to a user-facing message. ownership is the
// message for a 403 (empty to skip the special case); fallback is used when
// the server supplied no message of its own.
func translate(err error, ownership, fallback string) error {
	if ownership != "" && api.IsForbidden(err) {
		return fmt.Errorf("%s: %w", ownership, err)
	}
	if msg := api.ServerMessage(err); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}

// UserMessage extracts the leading user-facing part of a translated error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}

// CreateAdvice validates the form and creates a new advice. The created
// entity is returned so the caller can prepend it to local state without a
// reload.
func (a *Actions) CreateAdvice(ctx context.Context, form domain.AdviceForm) (*domain.Advice, error) {
	if err := a.validateAdviceForm(&form); err != nil {
		return nil, err
	}

	created, err := a.client.CreateAdvice(ctx, form.Title, form.Content, form.Anonymous)
	if err != nil {
		return nil, translate(err, "", "Failed to create post")
	}
	logging.Debug("Advice created", zap.String("id", created.ID))
	return created, nil
}

// UpdateAdvice validates the form and updates an existing advice, returning
// the server's entity for reconciliation.
func (a *Actions) UpdateAdvice(ctx context.Context, id string, form domain.AdviceForm) (*domain.Advice, error) {
	if err := a.validateAdviceForm(&form); err != nil {
		return nil, err
	}

	updated, err := a.client.UpdateAdvice(ctx, id, form.Title, form.Content, form.Anonymous)
	if err != nil {
		return nil, translate(err, "", "Failed to update post")
	}
	return updated, nil
}

// DeleteAdvice confirms and deletes an advice. It returns the deleted id on
// success, ErrCancelled when the user declines, and an ownership message on
// 403.
func (a *Actions) DeleteAdvice(ctx context.Context, id string) (string, error) {
	if a.confirm != nil && !a.confirm("Are you sure you want to delete this post? This cannot be undone.") {
		return "", ErrCancelled
	}

	if err := a.client.DeleteAdvice(ctx, id); err != nil {
		return "", translate(err, "You can only delete your own posts", "Failed to delete post")
	}
	return id, nil
}

// AddReply validates and attaches a reply. The server returns the parent
// advice with the reply embedded.
func (a *Actions) AddReply(ctx context.Context, adviceID string, form domain.ReplyForm) (*domain.Advice, error) {
	if err := a.validateReplyForm(&form); err != nil {
		return nil, err
	}

	updated, err := a.client.AddReply(ctx, adviceID, form.Content, form.Anonymous)
	if err != nil {
		return nil, translate(err, "", "Failed to add reply")
	}
	return updated, nil
}

// UpdateReply validates and edits a reply, returning the updated parent.
func (a *Actions) UpdateReply(ctx context.Context, adviceID, replyID string, form domain.ReplyForm) (*domain.Advice, error) {
	if err := a.validateReplyForm(&form); err != nil {
		return nil, err
	}

	updated, err := a.client.UpdateReply(ctx, adviceID, replyID, form.Content, form.Anonymous)
	if err != nil {
		return nil, translate(err, "", "Failed to update reply")
	}
	return updated, nil
}

// DeleteReply confirms and removes a reply, returning the deleted reply id.
func (a *Actions) DeleteReply(ctx context.Context, adviceID, replyID string) (string, error) {
	if a.confirm != nil && !a.confirm("Are you sure you want to delete this reply?") {
		return "", ErrCancelled
	}

	if err := a.client.DeleteReply(ctx, adviceID, replyID); err != nil {
		return "", translate(err, "You can only delete your own replies", "Failed to delete reply")
	}
	return replyID, nil
}

// loginForm carries login credentials through validation.
type loginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// registerForm carries registration input through validation.
type registerForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Login exchanges credentials for a token. Network-unreachable failures get
// a dedicated message; everything else reads as a credential problem, which
// is all the backend discloses.
func (a *Actions) Login(ctx context.Context, email, password string) (string, error) {
	form := loginForm{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Struct(form); err != nil {
		return "", &ValidationError{Message: "Email and password are required"}
	}

	token, err := a.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		if api.IsUnreachable(err) {
			return "", fmt.Errorf("Cannot reach the service. Check your connection and try again.: %w", err)
		}
		return "", fmt.Errorf("Authentication failed. Check your credentials.: %w", err)
	}
	return token, nil
}

// Register creates a new account and returns the new user id.
func (a *Actions) Register(ctx context.Context, username, email, password string) (string, error) {
	form := registerForm{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := a.validate.Struct(form); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 && fields[0].Field() == "Email" && fields[0].Tag() == "email" {
			return "", &ValidationError{Message: "Enter a valid email address"}
		}
		return "", &ValidationError{Message: "Username, email and password are required"}
	}

	id, err := a.client.Register(ctx, form.Username, form.Email, form.Password)
	if err != nil {
		if api.IsUnreachable(err) {
			return "", fmt.Errorf("Cannot reach the service. Check your connection and try again.: %w", err)
		}
		return "", translate(err, "", "Registration failed")
	}
	return id, nil
}

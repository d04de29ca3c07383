package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adviceboard/adviceboard/internal/api"
	"github.com/adviceboard/adviceboard/internal/domain"
)

const adviceBody = `{"_id":"a1","title":"Test Issue","content":"Details here","anonymous":false,
	"_createdBy":"u1","createdAt":"2025-06-01T10:00:00Z","replies":[]}`

// testBackend counts every request so tests can assert that validation and
// declined confirmations never reach the network.
type testBackend struct {
	hits    atomic.Int64
	handler http.HandlerFunc
	server  *httptest.Server
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *testBackend {
	t.Helper()
	b := &testBackend{handler: handler}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		if b.handler != nil {
			b.handler(w, r)
		}
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) client() *api.Client {
	return api.NewClient(b.server.URL, nil)
}

func okAdvice(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(adviceBody))
}

func confirmAlways(string) bool { return true }
func confirmNever(string) bool  { return false }

func TestCreateAdvice_ValidationShortCircuits(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	tests := []struct {
		name string
		form domain.AdviceForm
		want string
	}{
		{"short title", domain.AdviceForm{Title: "ab", Content: "long enough"}, "Title must be at least 3 characters"},
		{"whitespace title", domain.AdviceForm{Title: "  a  ", Content: "long enough"}, "Title must be at least 3 characters"},
		{"short content", domain.AdviceForm{Title: "a title", Content: "xy"}, "Content must be at least 3 characters"},
		{"whitespace content", domain.AdviceForm{Title: "a title", Content: " \t "}, "Content must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actions.CreateAdvice(context.Background(), tt.form)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Message)
		})
	}

	assert.EqualValues(t, 0, backend.hits.Load(), "validation failures must not hit the network")
}

func TestCreateAdvice_TrimsBeforeSending(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	created, err := actions.CreateAdvice(context.Background(), domain.AdviceForm{
		Title:   "  Test Issue  ",
		Content: "\tDetails here\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", created.ID)
	assert.EqualValues(t, 1, backend.hits.Load())
}

func TestCreateAdvice_RoundTripShowsInList(t *testing.T) {
	// Stateful backend: a create followed by a list must show exactly the
	// new entry.
	var posts []domain.Advice
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/advices":
			var in struct {
				Title     string `json:"title"`
				Content   string `json:"content"`
				Anonymous bool   `json:"anonymous"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			created := domain.Advice{
				ID:        fmt.Sprintf("a%d", len(posts)+1),
				Title:     in.Title,
				Content:   in.Content,
				Anonymous: in.Anonymous,
				IsMine:    true,
				Replies:   []domain.Reply{},
			}
			posts = append(posts, created)
			assert.NoError(t, json.NewEncoder(w).Encode(created))
		case r.Method == http.MethodGet && r.URL.Path == "/advices":
			assert.NoError(t, json.NewEncoder(w).Encode(posts))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	actions := NewActions(backend.client(), nil)

	before, err := backend.client().ListAdvices(context.Background())
	require.NoError(t, err)
	require.Empty(t, before)

	created, err := actions.CreateAdvice(context.Background(), domain.AdviceForm{
		Title:   "Test Issue",
		Content: "Details here",
	})
	require.NoError(t, err)

	after, err := backend.client().ListAdvices(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, created.ID, after[0].ID)
	assert.Equal(t, "Test Issue", after[0].Title)
	assert.Equal(t, "Details here", after[0].Content)
	assert.False(t, after[0].Anonymous)
}

func TestUpdateAdvice_Validation(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	_, err := actions.UpdateAdvice(context.Background(), "a1", domain.AdviceForm{Title: "x", Content: "y"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestDeleteAdvice_DeclinedConfirmationIsSilent(t *testing.T) {
	backend := newTestBackend(t, nil)
	actions := NewActions(backend.client(), confirmNever)

	id, err := actions.DeleteAdvice(context.Background(), "a1")

	assert.True(t, IsCancelled(err), "declining should yield ErrCancelled")
	assert.Empty(t, id)
	assert.EqualValues(t, 0, backend.hits.Load(), "declined confirmation must not hit the network")
}

func TestDeleteAdvice_ForbiddenTranslatesToOwnership(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	actions := NewActions(backend.client(), confirmAlways)

	_, err := actions.DeleteAdvice(context.Background(), "a1")

	require.Error(t, err)
	assert.False(t, IsCancelled(err))
	assert.Equal(t, "You can only delete your own posts", UserMessage(err))
}

func TestDeleteAdvice_Success(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/advices/a1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	actions := NewActions(backend.client(), confirmAlways)

	id, err := actions.DeleteAdvice(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
}

func TestDeleteAdvice_GenericFailure(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	actions := NewActions(backend.client(), confirmAlways)

	_, err := actions.DeleteAdvice(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, "Failed to delete post", UserMessage(err))
}

func TestDeleteAdvice_ServerMessageWins(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"post is locked"}`))
	})
	actions := NewActions(backend.client(), confirmAlways)

	_, err := actions.DeleteAdvice(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, "post is locked", UserMessage(err))
}

func TestAddReply_Validation(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	_, err := actions.AddReply(context.Background(), "a1", domain.ReplyForm{Content: " x "})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Reply must be at least 3 characters", vErr.Message)
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestAddReply_ReturnsParentAdvice(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	updated, err := actions.AddReply(context.Background(), "a1", domain.ReplyForm{Content: "try rebooting"})
	require.NoError(t, err)
	assert.Equal(t, "a1", updated.ID)
}

func TestUpdateReply_Validation(t *testing.T) {
	backend := newTestBackend(t, okAdvice)
	actions := NewActions(backend.client(), nil)

	_, err := actions.UpdateReply(context.Background(), "a1", "r1", domain.ReplyForm{Content: "ab"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestDeleteReply_DeclinedIsSilent(t *testing.T) {
	backend := newTestBackend(t, nil)
	actions := NewActions(backend.client(), confirmNever)

	_, err := actions.DeleteReply(context.Background(), "a1", "r1")

	assert.True(t, IsCancelled(err))
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestDeleteReply_Ownership(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	actions := NewActions(backend.client(), confirmAlways)

	_, err := actions.DeleteReply(context.Background(), "a1", "r1")
	require.Error(t, err)
	assert.Equal(t, "You can only delete your own replies", UserMessage(err))
}

func TestLogin_CredentialFailure(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	actions := NewActions(backend.client(), nil)

	_, err := actions.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Authentication failed. Check your credentials.", UserMessage(err))
}

func TestLogin_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	actions := NewActions(api.NewClient(url, nil), nil)

	_, err := actions.Login(context.Background(), "a@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Cannot reach the service. Check your connection and try again.", UserMessage(err))
}

func TestLogin_RequiresCredentials(t *testing.T) {
	backend := newTestBackend(t, nil)
	actions := NewActions(backend.client(), nil)

	_, err := actions.Login(context.Background(), "  ", "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestLogin_Success(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-1"}`))
	})
	actions := NewActions(backend.client(), nil)

	token, err := actions.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestRegister_Validation(t *testing.T) {
	backend := newTestBackend(t, nil)
	actions := NewActions(backend.client(), nil)

	_, err := actions.Register(context.Background(), "alice", "not-an-email", "pw")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Enter a valid email address", vErr.Message)

	_, err = actions.Register(context.Background(), "", "a@example.com", "pw")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Username, email and password are required", vErr.Message)

	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestRegister_Success(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u-9"}`))
	})
	actions := NewActions(backend.client(), nil)

	id, err := actions.Register(context.Background(), "alice", "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)
}

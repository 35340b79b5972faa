package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop/pkg/entity"
	llerrors "github.com/learnloop/learnloop/pkg/errors"
	"github.com/learnloop/learnloop/pkg/gateway"
	"github.com/learnloop/learnloop/pkg/gatewaytest"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func signedToken(t *testing.T, subject string) staticToken {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return staticToken(signed)
}

func newBackendClient(t *testing.T, subject string) (*gatewaytest.Server, *gateway.Client) {
	t.Helper()
	backend := gatewaytest.NewServer()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	client := gateway.NewClient(srv.URL, gateway.WithTokenSource(signedToken(t, subject)))
	return backend, client
}

func TestPostCreateAssignsServerIdentity(t *testing.T) {
	_, client := newBackendClient(t, "user-1")

	created, err := client.Posts().Create(context.Background(), entity.PostDraft{
		Description: "first post",
		MediaURL:    "https://cdn.example.com/a.jpg",
	})
	require.NoError(t, err)

	assert.False(t, created.ID.IsPending())
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "user-1", created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	listed, err := client.Posts().List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].ID.Equal(created.ID))
}

func TestCommentListFiltersByPost(t *testing.T) {
	_, client := newBackendClient(t, "user-1")

	_, err := client.Comments().Create(context.Background(), entity.CommentDraft{PostID: "p1", Text: "on p1"})
	require.NoError(t, err)
	_, err = client.Comments().Create(context.Background(), entity.CommentDraft{PostID: "p2", Text: "on p2"})
	require.NoError(t, err)

	comments, err := client.Comments().ListByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on p1", comments[0].Text)
}

func TestRequestCarriesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := gateway.NewClient(srv.URL, gateway.WithTokenSource(staticToken("tok-abc")))
	_, err := client.Posts().List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestRejectedCallYieldsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"description too long"}`))
	}))
	defer srv.Close()

	client := gateway.NewClient(srv.URL)
	_, err := client.Posts().Create(context.Background(), entity.PostDraft{
		Description: "x", MediaURL: "y",
	})

	var remote *gateway.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.Status)
	assert.Equal(t, "description too long", remote.Message)
}

func TestErrorBodyFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"nope"}`, "nope"},
		{"plain text", "plain failure text", "plain failure text"},
		{"empty body", "", http.StatusText(http.StatusBadGateway)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := gateway.NewClient(srv.URL).Posts().List(context.Background())
			var remote *gateway.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tc.want, remote.Message)
		})
	}
}

func TestTransportFailureHasStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := gateway.NewClient(srv.URL).Posts().List(context.Background())
	var remote *gateway.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 0, remote.Status)
	assert.NotEmpty(t, remote.Message)
}

func TestTimeoutTreatedAsTransportFailure(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	client := gateway.NewClient(srv.URL, gateway.WithTimeout(50*time.Millisecond))
	_, err := client.Posts().List(context.Background())

	var remote *gateway.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 0, remote.Status)
}

func TestFailCreatesInjection(t *testing.T) {
	backend, client := newBackendClient(t, "user-1")
	backend.SetFailCreates(true)

	_, err := client.Learning().Create(context.Background(), entity.LearningDraft{
		Template:    entity.TemplateGeneral,
		Topic:       "generics",
		Description: "type parameters in practice",
		Status:      entity.StatusInProgress,
	})
	var remote *gateway.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)

	backend.SetFailCreates(false)
	created, err := client.Learning().Create(context.Background(), entity.LearningDraft{
		Template:    entity.TemplateGeneral,
		Topic:       "generics",
		Description: "type parameters in practice",
		Status:      entity.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
}

func TestDuplicateRowInjectionDoublesLists(t *testing.T) {
	backend, client := newBackendClient(t, "user-1")
	backend.SeedPosts(entity.Post{
		ID: entity.ConfirmedID("p1"), UserID: "user-2", Description: "hi", MediaURL: "m",
	})
	backend.SetDuplicateRows(true)

	posts, err := client.Posts().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestNotificationMarkRead(t *testing.T) {
	backend, client := newBackendClient(t, "user-1")
	backend.SeedNotifications(entity.Notification{
		ID: entity.ConfirmedID("n1"), UserID: "user-1", Message: "welcome",
	})

	require.NoError(t, client.Notifications().MarkRead(context.Background(), "n1"))

	listed, err := client.Notifications().List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Read)
}

func TestUpdateAndDeleteRoundTrip(t *testing.T) {
	_, client := newBackendClient(t, "user-1")

	created, err := client.Stories().Create(context.Background(), entity.StoryDraft{
		Title: "day one", MediaURL: "https://cdn.example.com/s.jpg",
	})
	require.NoError(t, err)

	updated, err := client.Stories().Update(context.Background(), created.ID.String(), gateway.StoryPatch{Title: "day two"})
	require.NoError(t, err)
	assert.Equal(t, "day two", updated.Title)

	require.NoError(t, client.Stories().Delete(context.Background(), created.ID.String()))

	listed, err := client.Stories().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSkillPlanRoundTrip(t *testing.T) {
	backend, client := newBackendClient(t, "user-1")

	created, err := client.SkillPlans().Create(context.Background(), entity.SkillPlanDraft{
		SkillDetails: "public speaking",
		SkillLevel:   entity.LevelIntermediate,
		Resources:    "toastmasters, weekly practice",
		Date:         "2026-09-15",
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsPending())
	assert.Equal(t, "user-1", created.UserID)
	assert.False(t, created.Finished)

	mine, err := client.SkillPlans().ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := client.SkillPlans().ListByUser(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	finished := true
	updated, err := client.SkillPlans().Update(context.Background(), created.ID.String(), gateway.SkillPlanPatch{Finished: &finished})
	require.NoError(t, err)
	assert.True(t, updated.Finished)

	require.NoError(t, client.SkillPlans().Delete(context.Background(), created.ID.String()))
	backend.SetFailCreates(true)
	_, err = client.SkillPlans().Create(context.Background(), entity.SkillPlanDraft{
		SkillDetails: "x", SkillLevel: entity.LevelBeginner, Resources: "y", Date: "2026-01-01",
	})
	var remote *gateway.RemoteError
	require.ErrorAs(t, err, &remote)
}

func TestMalformedSuccessBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"truncated`))
	}))
	defer srv.Close()

	_, err := gateway.NewClient(srv.URL).Posts().List(context.Background())
	require.Error(t, err)
	assert.True(t, llerrors.IsCode(err, llerrors.ErrCodeRemoteDecode))
}

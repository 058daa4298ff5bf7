package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	"github.com/andrsolo/contactbook/pkg/tokens"
)

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *stubUserRepo) GetByID(context.Context, int64) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if r.user != nil && r.user.Username == username {
		return r.user, nil
	}
	return nil, nil
}
func (r *stubUserRepo) ConfirmEmail(context.Context, string) error { return nil }
func (r *stubUserRepo) UpdateAvatar(context.Context, string, string) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) UpdatePassword(context.Context, int64, string) error { return nil }

func newAuthRouter(users *stubUserRepo, tm *tokens.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Auth(users, tm)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		u := CurrentUser(c)
		c.String(http.StatusOK, u.Username)
	})
	r.GET("/protected", chain...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidBearer(t *testing.T) {
	tm := tokens.NewManager("test-secret", time.Hour, time.Hour)
	users := &stubUserRepo{user: &entity.User{ID: 1, Username: "alice", Role: entity.RoleUser}}
	r := newAuthRouter(users, tm)

	tok, err := tm.IssueSession("alice")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestAuthRejects(t *testing.T) {
	tm := tokens.NewManager("test-secret", time.Hour, time.Hour)
	users := &stubUserRepo{user: &entity.User{ID: 1, Username: "alice", Role: entity.RoleUser}}
	r := newAuthRouter(users, tm)

	// No header.
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)

	// Wrong scheme.
	tok, err := tm.IssueSession("alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token "+tok).Code)

	// Garbage token.
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer garbage").Code)

	// Action tokens are not session tokens.
	confirm, err := tm.IssueEmailConfirmation("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+confirm).Code)

	// Valid token for a user that no longer exists.
	ghost, err := tm.IssueSession("ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+ghost).Code)
}

func TestRequireAdmin(t *testing.T) {
	tm := tokens.NewManager("test-secret", time.Hour, time.Hour)

	admin := &stubUserRepo{user: &entity.User{ID: 1, Username: "root", Role: entity.RoleAdmin}}
	r := newAuthRouter(admin, tm, RequireAdmin())
	tok, err := tm.IssueSession("root")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+tok).Code)

	plain := &stubUserRepo{user: &entity.User{ID: 2, Username: "alice", Role: entity.RoleUser}}
	r = newAuthRouter(plain, tm, RequireAdmin())
	tok, err = tm.IssueSession("alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer "+tok).Code)
}

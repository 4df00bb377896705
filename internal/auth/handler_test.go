package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stokpintar/stokpintar/internal/auth"
	"github.com/stokpintar/stokpintar/internal/shared"
	_ "github.com/stokpintar/stokpintar/testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	handler := auth.NewHandler(discardLogger(), auth.NewService(repo), sessionManager)
	return handler, sessionManager
}

func ownerUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia-kuat"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{ID: 1, Username: "owner", PasswordHash: string(hashed), Role: shared.RoleOwner}
}

func doLogin(t *testing.T, handler *auth.Handler, sm *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.ServeLoginForTest(res, req)
	require.NoError(t, sm.Commit(ctx, res, sess))
	return res, sess
}

func TestLoginSuccessBindsSession(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{user: ownerUser(t)})

	res, sess := doLogin(t, handler, sm, `{"username":"owner","password":"rahasia-kuat"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"role":"OWNER"`)
	require.Equal(t, "1", sess.User())
	require.Equal(t, shared.RoleOwner, sess.Role())

	// Commit runs after the handler here, so read the live header map
	// rather than the snapshot Result() took at WriteHeader time.
	setCookie := res.Header().Get("Set-Cookie")
	require.Contains(t, setCookie, sm.CookieName()+"=")
	require.Contains(t, setCookie, sess.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{user: ownerUser(t)})

	res, sess := doLogin(t, handler, sm, `{"username":"owner","password":"salah-semua"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Contains(t, res.Body.String(), "Username atau password tidak valid")
	require.Empty(t, sess.User())
}

func TestLoginValidationRejectsShortPassword(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{user: ownerUser(t)})

	res, _ := doLogin(t, handler, sm, `{"username":"owner","password":"abc"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{user: ownerUser(t)})

	loginRes, sess := doLogin(t, handler, sm, `{"username":"owner","password":"rahasia-kuat"}`)
	require.Equal(t, http.StatusOK, loginRes.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "1", loaded.User())

	ctx := shared.ContextWithSession(req.Context(), loaded)
	req = req.WithContext(ctx)
	res := httptest.NewRecorder()
	handler.ServeLogoutForTest(res, req)
	require.NoError(t, sm.Commit(ctx, res, loaded))
	require.Equal(t, http.StatusNoContent, res.Code)

	// Session record is gone after the destroy commit.
	again := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	again.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	reloaded, err := sm.Load(context.Background(), again)
	require.NoError(t, err)
	require.Empty(t, reloaded.User())
}

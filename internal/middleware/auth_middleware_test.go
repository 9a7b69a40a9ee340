package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/platera-api/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	clerkID string
	err     error
}

func (s *stubVerifier) VerifySessionToken(ctx context.Context, token string) (string, error) {
	return s.clerkID, s.err
}

type stubResolver struct {
	user *entity.User
	err  error
}

func (s *stubResolver) CurrentUser(ctx context.Context, clerkID string) (*entity.User, error) {
	return s.user, s.err
}

func performRequest(m *AuthMiddleware, protected bool, prepare func(*http.Request)) (*httptest.ResponseRecorder, *entity.User) {
	router := gin.New()

	var seen *entity.User
	record := func(c *gin.Context) {
		seen = CurrentUser(c)
		c.Status(http.StatusOK)
	}

	if protected {
		router.GET("/probe", m.RequireAuth(), record)
	} else {
		router.GET("/probe", m.OptionalAuth(), record)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if prepare != nil {
		prepare(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, seen
}

func TestRequireAuth_NoToken(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{}, &stubResolver{})

	w, _ := performRequest(m, true, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_SessionCookie(t *testing.T) {
	user := &entity.User{ID: 7, Email: "chef@example.com"}
	m := NewAuthMiddleware(&stubVerifier{clerkID: "user_abc"}, &stubResolver{user: user})

	w, seen := performRequest(m, true, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint(7), seen.ID)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	user := &entity.User{ID: 7}
	m := NewAuthMiddleware(&stubVerifier{clerkID: "user_abc"}, &stubResolver{user: user})

	w, seen := performRequest(m, true, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, seen)
}

func TestRequireAuth_InvalidTokenIsAnonymous(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{err: errors.New("bad signature")}, &stubResolver{})

	w, _ := performRequest(m, true, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_UnresolvableAccount(t *testing.T) {
	// A valid token whose account cannot be materialized (provider down,
	// no email) resolves to nil and is rejected.
	m := NewAuthMiddleware(&stubVerifier{clerkID: "user_abc"}, &stubResolver{user: nil})

	w, _ := performRequest(m, true, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{}, &stubResolver{})

	w, seen := performRequest(m, false, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestOptionalAuth_ResolverErrorPasses(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{clerkID: "user_abc"}, &stubResolver{err: errors.New("db down")})

	w, seen := performRequest(m, false, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestMalformedAuthorizationHeaderIgnored(t *testing.T) {
	m := NewAuthMiddleware(&stubVerifier{clerkID: "user_abc"}, &stubResolver{user: &entity.User{ID: 1}})

	w, _ := performRequest(m, true, func(req *http.Request) {
		req.Header.Set("Authorization", "token-without-scheme")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

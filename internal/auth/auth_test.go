package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testAuth() *Auth {
	return New("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cretpass", hash)
	require.True(t, CheckPassword(hash, "s3cretpass"))
	require.False(t, CheckPassword(hash, "wrong"))
}

func TestIssueAndVerifyPair(t *testing.T) {
	a := testAuth()
	pair, err := a.IssuePair(42, "alice", "player")
	require.NoError(t, err)
	require.Equal(t, int64(42), pair.UserID)
	require.Equal(t, "alice", pair.Username)

	claims, err := a.VerifyAccess(pair.Access)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "player", claims.Role)

	// a refresh token is not an access token
	_, err = a.VerifyAccess(pair.Refresh)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefresh(t *testing.T) {
	a := testAuth()
	pair, err := a.IssuePair(7, "bob", "admin")
	require.NoError(t, err)

	access, err := a.Refresh(pair.Refresh)
	require.NoError(t, err)
	claims, err := a.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)

	// an access token cannot refresh
	_, err = a.Refresh(pair.Access)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	a := testAuth()
	other := New("other-secret", time.Minute, time.Hour)
	pair, err := other.IssuePair(1, "eve", "player")
	require.NoError(t, err)

	_, err = a.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	a := New("test-secret", -time.Minute, time.Hour)
	pair, err := a.IssuePair(1, "old", "player")
	require.NoError(t, err)

	_, err = a.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareAndGuards(t *testing.T) {
	a := testAuth()
	pair, err := a.IssuePair(5, "carol", "player")
	require.NoError(t, err)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "carol", claims.Username)
		w.WriteHeader(http.StatusOK)
	})

	h := a.Middleware(RequireUser(echo))

	// no token -> 401
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token -> handler sees claims
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// non-admin hits the admin guard
	admin := a.Middleware(RequireAdmin(echo))
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	admin.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

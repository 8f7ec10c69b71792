package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims carried by both access and refresh tokens. Type distinguishes them
// so a refresh token cannot be used to call the API.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Auth issues and verifies HMAC-signed tokens.
type Auth struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func New(secret string, accessTTL, refreshTTL time.Duration) *Auth {
	return &Auth{Secret: []byte(secret), AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (a *Auth) sign(userID int64, username, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// IssuePair returns an access/refresh token pair for the user, echoing
// user_id and username alongside the tokens.
func (a *Auth) IssuePair(userID int64, username, role string) (*TokenPair, error) {
	access, err := a.sign(userID, username, role, "access", a.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.sign(userID, username, role, "refresh", a.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, UserID: userID, Username: username}, nil
}

func (a *Auth) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns its claims.
func (a *Auth) VerifyAccess(token string) (*Claims, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != "access" {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (a *Auth) Refresh(refreshToken string) (string, error) {
	claims, err := a.parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Type != "refresh" {
		return "", ErrWrongTokenType
	}
	return a.sign(claims.UserID, claims.Username, claims.Role, "access", a.AccessTTL)
}

type ctxKey struct{}

// FromContext returns the claims attached by Middleware, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Middleware extracts a Bearer token when present and attaches its claims to
// the request context. It does not reject anything itself; RequireUser and
// RequireAdmin gate the protected routes.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := a.VerifyAccess(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers whose role is not admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		if claims.Role != "admin" {
			http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

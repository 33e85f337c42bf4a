package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// CookieName is the cookie that carries the token for browser clients.
const CookieName = "authToken"

// ErrInvalidToken is returned by Verify for any token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload. ID (jti) identifies the token for revocation.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer. A zero ttl uses DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new token for the user and returns it with its claims.
func (t *Tokens) Issue(userID uuid.UUID) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses a token and checks its signature, algorithm, expiry and
// user claim.
func (t *Tokens) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return claims, nil
}

// TTL returns the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the token cookie. Returns "" if neither is present.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// SetTokenCookie stores token in an HttpOnly cookie that expires with it.
func SetTokenCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the token cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

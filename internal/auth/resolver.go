package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"blogapi/internal/session"
)

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// SessionReader loads the server-side session named by a request cookie.
type SessionReader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// Resolver maps request credentials to a Subject. Credentials are tried in
// order: bearer token, token cookie, session cookie.
type Resolver struct {
	tokens   *Tokens
	revoked  RevocationChecker
	sessions SessionReader
}

// NewResolver creates a resolver. revoked and sessions may be nil when
// Valkey is not configured; tokens are then trusted until they expire and
// session cookies are ignored.
func NewResolver(tokens *Tokens, revoked RevocationChecker, sessions SessionReader) *Resolver {
	return &Resolver{tokens: tokens, revoked: revoked, sessions: sessions}
}

// Resolve returns the subject for r. It never fails: a missing, invalid,
// expired or revoked credential, or a backend error, yields Anonymous.
func (res *Resolver) Resolve(r *http.Request) Subject {
	ctx := r.Context()

	if token := TokenFromRequest(r); token != "" {
		if s, ok := res.fromToken(ctx, token); ok {
			return s
		}
	}

	if res.sessions != nil {
		data, err := res.sessions.Get(ctx, r)
		if err != nil {
			log.Warn().Err(err).Msg("session lookup failed")
			return Anonymous
		}
		if data != nil {
			return NewSubject(data.UserID)
		}
	}

	return Anonymous
}

func (res *Resolver) fromToken(ctx context.Context, token string) (Subject, bool) {
	claims, err := res.tokens.Verify(token)
	if err != nil {
		log.Debug().Err(err).Msg("rejected token")
		return Anonymous, false
	}

	if res.revoked != nil {
		revoked, err := res.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Warn().Err(err).Msg("revocation check failed")
			return Anonymous, false
		}
		if revoked {
			return Anonymous, false
		}
	}

	return NewSubject(claims.UserID), true
}

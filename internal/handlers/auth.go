package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"blogapi/internal/account"
	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/respond"
	"blogapi/internal/session"
)

// Sessions creates and destroys server-side sessions for browser clients.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups the account HTTP handlers.
type Auth struct {
	accounts *account.Service
	sessions Sessions
	resolver SubjectResolver
	secure   bool
}

// NewAuth creates an Auth handler group. sessions may be nil when Valkey is
// not configured; clients then rely on the token alone. secure marks
// cookies HTTPS-only.
func NewAuth(accounts *account.Service, sessions Sessions, resolver SubjectResolver, secure bool) *Auth {
	return &Auth{accounts: accounts, sessions: sessions, resolver: resolver, secure: secure}
}

type grantResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Signup handles POST /api/auth/signup.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var in models.Signup
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}

	g, err := a.accounts.Signup(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	a.signIn(w, r, g)
	respond.JSON(w, http.StatusCreated, grantResponse{User: g.User, Token: g.Token})
}

// Login handles POST /api/auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	g, err := a.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	a.signIn(w, r, g)
	respond.JSON(w, http.StatusOK, grantResponse{User: g.User, Token: g.Token})
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.accounts.Logout(r.Context(), auth.TokenFromRequest(r))
	auth.ClearTokenCookie(w, a.secure)

	if a.sessions != nil {
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			log.Warn().Err(err).Msg("session destroy failed")
		}
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Profile handles GET /api/auth/profile.
func (a *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := a.accounts.Profile(r.Context(), a.resolver.Resolve(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// signIn sets the token cookie and, when sessions are available, opens a
// server-side session. A session failure is logged; the token still works.
func (a *Auth) signIn(w http.ResponseWriter, r *http.Request, g *account.Grant) {
	auth.SetTokenCookie(w, g.Token, g.ExpiresAt, a.secure)

	if a.sessions == nil {
		return
	}
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{UserID: g.User.ID, Email: g.User.Email}); err != nil {
		log.Warn().Err(err).Str("user_id", g.User.ID.String()).Msg("session create failed")
	}
}

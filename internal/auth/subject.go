// Package auth resolves request credentials to a Subject. It issues and
// verifies signed tokens, hashes passwords, and manages the token cookie.
package auth

import "github.com/google/uuid"

// Subject is the identity a request acts as. The zero value is Anonymous.
// Subjects compare by value.
type Subject struct {
	id uuid.UUID
}

// Anonymous is the subject of a request without a valid credential.
var Anonymous = Subject{}

// NewSubject returns the subject for a user id. uuid.Nil yields Anonymous.
func NewSubject(id uuid.UUID) Subject {
	return Subject{id: id}
}

// ID returns the user id, or uuid.Nil for Anonymous.
func (s Subject) ID() uuid.UUID {
	return s.id
}

// IsAnonymous reports whether no user is signed in.
func (s Subject) IsAnonymous() bool {
	return s.id == uuid.Nil
}

// Is reports whether s is the signed-in user with the given id.
func (s Subject) Is(id uuid.UUID) bool {
	return !s.IsAnonymous() && s.id == id
}

func (s Subject) String() string {
	if s.IsAnonymous() {
		return "anonymous"
	}
	return s.id.String()
}

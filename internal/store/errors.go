// Package store provides database access for users and blogs. Each store
// wraps a *sql.DB and exposes typed query methods. Lookups return nil, nil
// when a row does not exist.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint violations surfaced as typed errors.
var (
	ErrDuplicateTitle = errors.New("blog title already exists")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownAuthor  = errors.New("author does not exist")
)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names from the migrations.
const (
	constraintBlogTitle = "blogs_title_key"
	constraintUserEmail = "users_email_key"
)

// mapConstraint translates constraint violations into store errors and
// leaves every other error untouched.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintBlogTitle:
		return ErrDuplicateTitle
	case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintUserEmail:
		return ErrDuplicateEmail
	case pgErr.Code == codeForeignKeyViolation:
		return ErrUnknownAuthor
	}
	return err
}

// stringList scans a JSON array column (array_to_json of a text[]) into a
// non-nil []string.
type stringList []string

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = stringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

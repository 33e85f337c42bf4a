// Package query builds blog listings from composable filter predicates,
// a whitelisted sort and page/limit pagination. Predicates render to SQL
// for PostgreSQL and evaluate directly against blogs for the memory store.
package query

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"blogapi/internal/models"
)

// SQL column references assume blogs aliased as b joined to users as u.
const (
	colState       = "b.state"
	colAuthorID    = "b.author_id"
	colTitle       = "b.title"
	colDescription = "b.description"
	colFirstName   = "u.first_name"
	colLastName    = "u.last_name"
)

// Args collects positional SQL arguments.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the collected arguments in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// Predicate is a boolean filter over blogs.
type Predicate interface {
	// SQL renders the predicate as a WHERE fragment, adding its arguments.
	SQL(args *Args) string
	// Match evaluates the predicate against a blog with its author populated.
	Match(b *models.Blog) bool
}

// All matches every blog.
func All() Predicate { return and{} }

type and []Predicate

// And matches blogs that satisfy every predicate.
func And(preds ...Predicate) Predicate { return and(compact(preds)) }

func (p and) SQL(args *Args) string {
	if len(p) == 0 {
		return "TRUE"
	}
	return join(p, " AND ", args)
}

func (p and) Match(b *models.Blog) bool {
	for _, q := range p {
		if !q.Match(b) {
			return false
		}
	}
	return true
}

type or []Predicate

// Or matches blogs that satisfy at least one predicate.
func Or(preds ...Predicate) Predicate { return or(compact(preds)) }

func (p or) SQL(args *Args) string {
	if len(p) == 0 {
		return "FALSE"
	}
	return join(p, " OR ", args)
}

func (p or) Match(b *models.Blog) bool {
	for _, q := range p {
		if q.Match(b) {
			return true
		}
	}
	return false
}

type stateIs models.BlogState

// StateIs matches blogs in the given state.
func StateIs(state models.BlogState) Predicate { return stateIs(state) }

func (p stateIs) SQL(args *Args) string {
	return colState + " = " + args.Add(string(p))
}

func (p stateIs) Match(b *models.Blog) bool {
	return b.State == models.BlogState(p)
}

type authorIs uuid.UUID

// AuthorIs matches blogs written by the given user.
func AuthorIs(id uuid.UUID) Predicate { return authorIs(id) }

func (p authorIs) SQL(args *Args) string {
	return colAuthorID + " = " + args.Add(uuid.UUID(p))
}

func (p authorIs) Match(b *models.Blog) bool {
	return b.AuthorID == uuid.UUID(p)
}

// textField names a text attribute a substring search can target.
type textField int

const (
	fieldTitle textField = iota
	fieldDescription
	fieldTags
	fieldAuthorFirstName
	fieldAuthorLastName
)

type contains struct {
	field textField
	text  string
}

// TitleContains matches blogs whose title contains text, ignoring case.
func TitleContains(text string) Predicate { return contains{fieldTitle, text} }

// DescriptionContains matches blogs whose description contains text, ignoring case.
func DescriptionContains(text string) Predicate { return contains{fieldDescription, text} }

// TagContains matches blogs with at least one tag containing text, ignoring case.
func TagContains(text string) Predicate { return contains{fieldTags, text} }

// AuthorNameContains matches blogs whose author's first or last name
// contains text, ignoring case.
func AuthorNameContains(text string) Predicate {
	return Or(contains{fieldAuthorFirstName, text}, contains{fieldAuthorLastName, text})
}

// Search matches blogs where any of title, description, tags or author
// name contains text, ignoring case. Surrounding whitespace is trimmed; an
// empty search returns nil, which And drops.
func Search(text string) Predicate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return Or(
		TitleContains(text),
		DescriptionContains(text),
		TagContains(text),
		AuthorNameContains(text),
	)
}

func (p contains) SQL(args *Args) string {
	ph := args.Add("%" + escapeLike(p.text) + "%")
	switch p.field {
	case fieldTitle:
		return colTitle + " ILIKE " + ph
	case fieldDescription:
		return colDescription + " ILIKE " + ph
	case fieldTags:
		return "EXISTS (SELECT 1 FROM unnest(b.tags) AS tag WHERE tag ILIKE " + ph + ")"
	case fieldAuthorFirstName:
		return colFirstName + " ILIKE " + ph
	case fieldAuthorLastName:
		return colLastName + " ILIKE " + ph
	}
	return "FALSE"
}

func (p contains) Match(b *models.Blog) bool {
	needle := strings.ToLower(p.text)
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), needle) }

	switch p.field {
	case fieldTitle:
		return has(b.Title)
	case fieldDescription:
		return has(b.Description)
	case fieldTags:
		for _, t := range b.Tags {
			if has(t) {
				return true
			}
		}
	case fieldAuthorFirstName:
		return b.Author != nil && has(b.Author.FirstName)
	case fieldAuthorLastName:
		return b.Author != nil && has(b.Author.LastName)
	}
	return false
}

// escapeLike makes text match literally inside a LIKE pattern, using the
// default backslash escape.
func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}

func join(preds []Predicate, sep string, args *Args) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.SQL(args)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

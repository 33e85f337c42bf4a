package models

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"blogapi/internal/errs"
)

// Validation limits for blog and account fields, counted in runes after
// trimming surrounding whitespace.
const (
	minTitleLen       = 5
	maxTitleLen       = 200
	minDescriptionLen = 10
	maxDescriptionLen = 500
	minBodyLen        = 50

	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 30
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BlogInput carries the fields accepted when creating a blog.
type BlogInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

// Normalize trims text fields and cleans up tags in place.
func (in *BlogInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Body = strings.TrimSpace(in.Body)
	in.Tags = NormalizeTags(in.Tags)
}

// Validate returns the first field violation. Call Normalize first.
func (in *BlogInput) Validate() error {
	if in.Title == "" || in.Description == "" || in.Body == "" {
		return errs.Validation("Title, description, and body are required")
	}
	if msg := validateTitle(in.Title); msg != "" {
		return errs.Validation(msg)
	}
	if msg := validateDescription(in.Description); msg != "" {
		return errs.Validation(msg)
	}
	if msg := validateBody(in.Body); msg != "" {
		return errs.Validation(msg)
	}
	return nil
}

// BlogPatch carries a partial update. Nil fields are left unchanged.
// ReadingTime is derived from Body by Normalize.
type BlogPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`

	ReadingTime *int `json:"-"`
}

// Empty reports whether the patch changes nothing.
func (p *BlogPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Body == nil && p.Tags == nil
}

// Normalize trims present fields, cleans tags and derives the reading time.
func (p *BlogPatch) Normalize() {
	if p.Title != nil {
		p.Title = ptr(strings.TrimSpace(*p.Title))
	}
	if p.Description != nil {
		p.Description = ptr(strings.TrimSpace(*p.Description))
	}
	if p.Body != nil {
		p.Body = ptr(strings.TrimSpace(*p.Body))
		p.ReadingTime = ptr(ReadingTime(*p.Body))
	}
	if p.Tags != nil {
		p.Tags = ptr(NormalizeTags(*p.Tags))
	}
}

// Validate checks every present field with the same rules as BlogInput.
func (p *BlogPatch) Validate() error {
	if p.Title != nil {
		if msg := validateTitle(*p.Title); msg != "" {
			return errs.Validation(msg)
		}
	}
	if p.Description != nil {
		if msg := validateDescription(*p.Description); msg != "" {
			return errs.Validation(msg)
		}
	}
	if p.Body != nil {
		if msg := validateBody(*p.Body); msg != "" {
			return errs.Validation(msg)
		}
	}
	return nil
}

// Signup carries the fields accepted when registering an account.
type Signup struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Normalize trims names and lowercases the email. The password is kept
// verbatim.
func (s *Signup) Normalize() {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
}

// Validate returns the first field violation. Call Normalize first.
func (s *Signup) Validate() error {
	if s.Email == "" || s.Password == "" || s.FirstName == "" || s.LastName == "" {
		return errs.Validation("Email, password, first name, and last name are required")
	}
	if !emailPattern.MatchString(s.Email) {
		return errs.Validation("Please provide a valid email address")
	}
	if utf8.RuneCountInString(s.Password) < minPasswordLen {
		return errs.Validation("Password must be at least 6 characters")
	}
	if strings.IndexFunc(s.Password, unicode.IsSpace) >= 0 {
		return errs.Validation("Password must not contain spaces")
	}
	if !inRange(s.FirstName, minNameLen, maxNameLen) {
		return errs.Validation("First name must be between 2 and 30 characters")
	}
	if !inRange(s.LastName, minNameLen, maxNameLen) {
		return errs.Validation("Last name must be between 2 and 30 characters")
	}
	return nil
}

func validateTitle(title string) string {
	if !inRange(title, minTitleLen, maxTitleLen) {
		return "Title must be between 5 and 200 characters"
	}
	return ""
}

func validateDescription(desc string) string {
	if !inRange(desc, minDescriptionLen, maxDescriptionLen) {
		return "Description must be between 10 and 500 characters"
	}
	return ""
}

func validateBody(body string) string {
	if utf8.RuneCountInString(body) < minBodyLen {
		return "Body must be at least 50 characters"
	}
	return ""
}

func inRange(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

func ptr[T any](v T) *T { return &v }

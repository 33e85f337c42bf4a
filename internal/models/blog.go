package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlogState represents the publishing state of a blog.
type BlogState string

const (
	BlogStateDraft     BlogState = "draft"
	BlogStatePublished BlogState = "published"
)

// Valid reports whether s is one of the known states.
func (s BlogState) Valid() bool {
	return s == BlogStateDraft || s == BlogStatePublished
}

// ParseBlogState accepts only the exact state names.
func ParseBlogState(v string) (BlogState, bool) {
	s := BlogState(v)
	return s, s.Valid()
}

const (
	// WordsPerMinute is the reading speed used for ReadingTime.
	WordsPerMinute = 200

	// MaxTags is the number of tags kept on a blog; extras are dropped.
	MaxTags = 10
)

// Blog is a post owned by a single author. AuthorID never changes after
// creation. Author is populated by the store for responses.
type Blog struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	AuthorID    uuid.UUID `json:"-"`
	Author      *Author   `json:"author"`
	State       BlogState `json:"state"`
	ReadCount   int       `json:"read_count"`
	ReadingTime int       `json:"reading_time"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsPublished returns true if the blog is visible to everyone.
func (b *Blog) IsPublished() bool {
	return b.State == BlogStatePublished
}

// ReadingTime estimates minutes to read body at WordsPerMinute, never less
// than one minute.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// NormalizeTags trims each tag, drops blank ones and keeps at most MaxTags.
// The result is never nil so it encodes as an empty JSON array.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, min(len(tags), MaxTags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

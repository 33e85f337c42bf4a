package policy

import (
	"testing"

	"github.com/google/uuid"

	"blogapi/internal/auth"
	"blogapi/internal/models"
)

func TestCanPerform(t *testing.T) {
	authorID := uuid.New()
	author := auth.NewSubject(authorID)
	stranger := auth.NewSubject(uuid.New())

	draft := &models.Blog{AuthorID: authorID, State: models.BlogStateDraft}
	published := &models.Blog{AuthorID: authorID, State: models.BlogStatePublished}

	tests := []struct {
		name    string
		subject auth.Subject
		blog    *models.Blog
		action  Action
		want    bool
	}{
		{"anonymous views published", auth.Anonymous, published, ActionView, true},
		{"stranger views published", stranger, published, ActionView, true},
		{"author views published", author, published, ActionView, true},
		{"anonymous views draft", auth.Anonymous, draft, ActionView, false},
		{"stranger views draft", stranger, draft, ActionView, false},
		{"author views draft", author, draft, ActionView, true},

		{"author edits", author, published, ActionEdit, true},
		{"stranger edits published", stranger, published, ActionEdit, false},
		{"anonymous edits", auth.Anonymous, published, ActionEdit, false},
		{"author deletes draft", author, draft, ActionDelete, true},
		{"stranger deletes", stranger, draft, ActionDelete, false},
		{"author changes state", author, draft, ActionChangeState, true},
		{"stranger changes state", stranger, published, ActionChangeState, false},

		{"unknown action", author, published, Action("share"), false},
		{"nil blog", author, nil, ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPerform(tt.subject, tt.blog, tt.action)
			if got != tt.want {
				t.Errorf("CanPerform(%s, %s) = %v, want %v", tt.subject, tt.action, got, tt.want)
			}
		})
	}
}

// TestCanPerformAnonymousAuthor guards against a blog with a nil author id
// being editable by anonymous callers.
func TestCanPerformAnonymousAuthor(t *testing.T) {
	blog := &models.Blog{AuthorID: uuid.Nil, State: models.BlogStateDraft}
	if CanPerform(auth.Anonymous, blog, ActionEdit) {
		t.Error("anonymous subject must never be treated as author")
	}
}

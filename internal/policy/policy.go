// Package policy decides what a subject may do with a blog.
package policy

import (
	"blogapi/internal/auth"
	"blogapi/internal/models"
)

// Action is an operation on a single blog.
type Action string

const (
	ActionView        Action = "view"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
	ActionChangeState Action = "changeState"
)

// CanPerform reports whether subject may perform action on blog. Anyone may
// view a published blog; everything else is reserved for the author.
func CanPerform(subject auth.Subject, blog *models.Blog, action Action) bool {
	if blog == nil {
		return false
	}
	isAuthor := subject.Is(blog.AuthorID)

	switch action {
	case ActionView:
		return blog.IsPublished() || isAuthor
	case ActionEdit, ActionDelete, ActionChangeState:
		return isAuthor
	default:
		return false
	}
}

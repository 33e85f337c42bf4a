// Package blog implements the blog operations: authoring, reading and
// listing. Every operation takes the acting subject explicitly and checks
// it against the authorization policy before touching the store.
package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blogapi/internal/auth"
	"blogapi/internal/errs"
	"blogapi/internal/models"
	"blogapi/internal/policy"
	"blogapi/internal/query"
	"blogapi/internal/store"
)

// Repository persists blogs. Lookups return nil, nil for a missing blog.
type Repository interface {
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	Update(ctx context.Context, id uuid.UUID, patch models.BlogPatch) (*models.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	SetState(ctx context.Context, id uuid.UUID, state models.BlogState) (*models.Blog, error)
	IncrementReadCount(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	List(ctx context.Context, q query.Query) ([]models.Blog, int, error)
}

// Client-facing messages.
const (
	msgUnauthorized   = "Unauthorized"
	msgInvalidID      = "Invalid blog ID"
	msgNotFound       = "Blog not found"
	msgDuplicateTitle = "Blog with this title already exists"
	msgInvalidState   = "State must be 'draft' or 'published'"
	msgForbidEdit     = "You can only edit your own blogs"
	msgForbidDelete   = "You can only delete your own blogs"
	msgForbidState    = "You can only change state of your own blogs"
)

// Service runs blog operations against a Repository.
type Service struct {
	blogs Repository
}

// NewService creates a blog service.
func NewService(blogs Repository) *Service {
	return &Service{blogs: blogs}
}

// Create stores a new draft authored by subject.
func (s *Service) Create(ctx context.Context, subject auth.Subject, in models.BlogInput) (*models.Blog, error) {
	if subject.IsAnonymous() {
		return nil, errs.Unauthorized(msgUnauthorized)
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b, err := s.blogs.Create(ctx, &models.Blog{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		AuthorID:    subject.ID(),
		State:       models.BlogStateDraft,
		ReadingTime: models.ReadingTime(in.Body),
		Tags:        in.Tags,
	})
	if err != nil {
		return nil, storeError("create blog", err)
	}
	return b, nil
}

// Get returns a blog the subject may view and counts the read. Drafts the
// subject may not see are reported as not found, and are not counted.
func (s *Service) Get(ctx context.Context, subject auth.Subject, rawID string) (*models.Blog, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get blog", err)
	}
	if b == nil || !policy.CanPerform(subject, b, policy.ActionView) {
		return nil, errs.NotFound(msgNotFound)
	}

	read, err := s.blogs.IncrementReadCount(ctx, id)
	if err != nil {
		return nil, storeError("count blog read", err)
	}
	if read == nil {
		// Deleted between the lookup and the increment.
		return nil, errs.NotFound(msgNotFound)
	}
	return read, nil
}

// Update applies a partial edit. Only the author may edit; others get
// Forbidden even though this reveals that the blog exists.
func (s *Service) Update(ctx context.Context, subject auth.Subject, rawID string, patch models.BlogPatch) (*models.Blog, error) {
	b, err := s.owned(ctx, subject, rawID, policy.ActionEdit, msgForbidEdit)
	if err != nil {
		return nil, err
	}

	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return b, nil
	}

	updated, err := s.blogs.Update(ctx, b.ID, patch)
	if err != nil {
		return nil, storeError("update blog", err)
	}
	if updated == nil {
		return nil, errs.NotFound(msgNotFound)
	}
	return updated, nil
}

// Delete permanently removes a blog owned by subject.
func (s *Service) Delete(ctx context.Context, subject auth.Subject, rawID string) error {
	b, err := s.owned(ctx, subject, rawID, policy.ActionDelete, msgForbidDelete)
	if err != nil {
		return err
	}

	if _, err := s.blogs.Delete(ctx, b.ID); err != nil {
		return storeError("delete blog", err)
	}
	return nil
}

// ChangeState moves a blog between draft and published. The requested
// state is validated before the blog is looked up.
func (s *Service) ChangeState(ctx context.Context, subject auth.Subject, rawID, rawState string) (*models.Blog, error) {
	if subject.IsAnonymous() {
		return nil, errs.Unauthorized(msgUnauthorized)
	}
	state, ok := models.ParseBlogState(rawState)
	if !ok {
		return nil, errs.Validation(msgInvalidState)
	}

	b, err := s.owned(ctx, subject, rawID, policy.ActionChangeState, msgForbidState)
	if err != nil {
		return nil, err
	}

	updated, err := s.blogs.SetState(ctx, b.ID, state)
	if err != nil {
		return nil, storeError("change blog state", err)
	}
	if updated == nil {
		return nil, errs.NotFound(msgNotFound)
	}
	return updated, nil
}

// owned loads a blog and checks that subject may perform action on it.
func (s *Service) owned(ctx context.Context, subject auth.Subject, rawID string, action policy.Action, forbidden string) (*models.Blog, error) {
	if subject.IsAnonymous() {
		return nil, errs.Unauthorized(msgUnauthorized)
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find blog", err)
	}
	if b == nil {
		return nil, errs.NotFound(msgNotFound)
	}
	if !policy.CanPerform(subject, b, action) {
		return nil, errs.Forbidden(forbidden)
	}
	return b, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.Validation(msgInvalidID)
	}
	return id, nil
}

// storeError classifies a repository error.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateTitle):
		return errs.Conflict(msgDuplicateTitle)
	case errors.Is(err, store.ErrUnknownAuthor):
		return errs.Unauthorized(msgUnauthorized)
	default:
		return errs.Internal(fmt.Errorf("%s: %w", op, err))
	}
}

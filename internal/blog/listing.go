package blog

import (
	"context"
	"fmt"

	"blogapi/internal/auth"
	"blogapi/internal/errs"
	"blogapi/internal/models"
	"blogapi/internal/query"
)

// Listing is one page of blogs.
type Listing struct {
	Data       []models.Blog    `json:"data"`
	Pagination query.Pagination `json:"pagination"`
}

// PublicParams selects a page of the public feed.
type PublicParams struct {
	Page   query.Page
	Search string
	Sort   query.Sort
}

// OwnerParams selects a page of the subject's own blogs. State filters only
// when it is exactly "draft" or "published".
type OwnerParams struct {
	Page  query.Page
	State string
}

// ListPublished returns published blogs, optionally narrowed by a search
// over title, description, tags and author name.
func (s *Service) ListPublished(ctx context.Context, p PublicParams) (*Listing, error) {
	return s.list(ctx, query.Query{
		Filter: query.And(
			query.StateIs(models.BlogStatePublished),
			query.Search(p.Search),
		),
		Sort: p.Sort,
		Page: p.Page,
	})
}

// ListMine returns the subject's blogs, newest first.
func (s *Service) ListMine(ctx context.Context, subject auth.Subject, p OwnerParams) (*Listing, error) {
	if subject.IsAnonymous() {
		return nil, errs.Unauthorized(msgUnauthorized)
	}

	filter := query.And(query.AuthorIs(subject.ID()))
	if state, ok := models.ParseBlogState(p.State); ok {
		filter = query.And(filter, query.StateIs(state))
	}

	return s.list(ctx, query.Query{Filter: filter, Sort: query.Newest, Page: p.Page})
}

func (s *Service) list(ctx context.Context, q query.Query) (*Listing, error) {
	if q.Page.Limit < 1 || q.Page.Number < 1 {
		q.Page = query.ParsePage("", "")
	}

	blogs, total, err := s.blogs.List(ctx, q)
	if err != nil {
		return nil, errs.Internal(fmt.Errorf("list blogs: %w", err))
	}
	return &Listing{Data: blogs, Pagination: q.Page.Paginate(total)}, nil
}

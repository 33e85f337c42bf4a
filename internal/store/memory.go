package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/models"
	"blogapi/internal/query"
)

// Memory is an in-process store with the same contracts as the PostgreSQL
// stores: unique titles and emails, existing authors, atomic read counts.
// It backs STORE_DRIVER=memory and the service and handler tests.
type Memory struct {
	Blogs *MemoryBlogStore
	Users *MemoryUserStore
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	db := &memoryDB{
		users:  make(map[uuid.UUID]*models.User),
		emails: make(map[string]uuid.UUID),
		blogs:  make(map[uuid.UUID]*models.Blog),
		titles: make(map[string]uuid.UUID),
	}
	return &Memory{
		Blogs: &MemoryBlogStore{db: db},
		Users: &MemoryUserStore{db: db},
	}
}

type memoryDB struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*models.User
	emails map[string]uuid.UUID
	blogs  map[uuid.UUID]*models.Blog
	titles map[string]uuid.UUID
	last   time.Time
}

// now returns a strictly increasing timestamp so creation order is total.
// Callers hold the write lock.
func (db *memoryDB) now() time.Time {
	t := time.Now().UTC()
	if !t.After(db.last) {
		t = db.last.Add(time.Microsecond)
	}
	db.last = t
	return t
}

// view copies a stored blog and attaches its author. Callers hold a lock.
func (db *memoryDB) view(b *models.Blog) *models.Blog {
	out := *b
	out.Tags = slices.Clone(b.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if u, ok := db.users[b.AuthorID]; ok {
		out.Author = u.Author()
	}
	return &out
}

// MemoryBlogStore is the in-memory counterpart of BlogStore.
type MemoryBlogStore struct {
	db *memoryDB
}

func (s *MemoryBlogStore) Create(_ context.Context, b *models.Blog) (*models.Blog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.titles[b.Title]; taken {
		return nil, fmt.Errorf("create blog: %w", ErrDuplicateTitle)
	}
	if _, ok := s.db.users[b.AuthorID]; !ok {
		return nil, fmt.Errorf("create blog: %w", ErrUnknownAuthor)
	}

	now := s.db.now()
	stored := &models.Blog{
		ID:          uuid.New(),
		Title:       b.Title,
		Description: b.Description,
		Body:        b.Body,
		AuthorID:    b.AuthorID,
		State:       b.State,
		ReadingTime: b.ReadingTime,
		Tags:        slices.Clone(b.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.State == "" {
		stored.State = models.BlogStateDraft
	}
	s.db.blogs[stored.ID] = stored
	s.db.titles[stored.Title] = stored.ID

	return s.db.view(stored), nil
}

func (s *MemoryBlogStore) FindByID(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	b, ok := s.db.blogs[id]
	if !ok {
		return nil, nil
	}
	return s.db.view(b), nil
}

func (s *MemoryBlogStore) Update(_ context.Context, id uuid.UUID, patch models.BlogPatch) (*models.Blog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.blogs[id]
	if !ok {
		return nil, nil
	}

	if patch.Title != nil && *patch.Title != b.Title {
		if owner, taken := s.db.titles[*patch.Title]; taken && owner != id {
			return nil, fmt.Errorf("update blog: %w", ErrDuplicateTitle)
		}
		delete(s.db.titles, b.Title)
		b.Title = *patch.Title
		s.db.titles[b.Title] = id
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Body != nil {
		b.Body = *patch.Body
	}
	if patch.ReadingTime != nil {
		b.ReadingTime = *patch.ReadingTime
	}
	if patch.Tags != nil {
		b.Tags = slices.Clone(*patch.Tags)
	}
	b.UpdatedAt = s.db.now()

	return s.db.view(b), nil
}

func (s *MemoryBlogStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.blogs[id]
	if !ok {
		return false, nil
	}
	delete(s.db.titles, b.Title)
	delete(s.db.blogs, id)
	return true, nil
}

func (s *MemoryBlogStore) SetState(_ context.Context, id uuid.UUID, state models.BlogState) (*models.Blog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.blogs[id]
	if !ok {
		return nil, nil
	}
	b.State = state
	b.UpdatedAt = s.db.now()
	return s.db.view(b), nil
}

func (s *MemoryBlogStore) IncrementReadCount(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.blogs[id]
	if !ok {
		return nil, nil
	}
	b.ReadCount++
	return s.db.view(b), nil
}

func (s *MemoryBlogStore) List(_ context.Context, q query.Query) ([]models.Blog, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]*models.Blog, 0, len(s.db.blogs))
	for _, b := range s.db.blogs {
		v := s.db.view(b)
		if q.Matches(v) {
			matched = append(matched, v)
		}
	}
	slices.SortFunc(matched, q.Sort.Compare)

	total := len(matched)
	start := min(max(q.Page.Offset(), 0), total)
	end := start + min(max(q.Page.Limit, 0), total-start)

	page := make([]models.Blog, 0, end-start)
	for _, b := range matched[start:end] {
		page = append(page, *b)
	}
	return page, total, nil
}

// MemoryUserStore is the in-memory counterpart of UserStore.
type MemoryUserStore struct {
	db *memoryDB
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.emails[email]
	if !ok {
		return nil, nil
	}
	u := *s.db.users[id]
	return &u, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.emails[u.Email]; taken {
		return nil, fmt.Errorf("create user: %w", ErrDuplicateEmail)
	}

	now := s.db.now()
	stored := *u
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.db.users[stored.ID] = &stored
	s.db.emails[stored.Email] = stored.ID

	out := stored
	return &out, nil
}

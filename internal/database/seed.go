package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/models"
)

// Demo account created by Seed.
const (
	SeedEmail    = "demo@blogapi.local"
	SeedPassword = "demo1234"
)

type seedBlog struct {
	title, description string
	paragraphs         int
	state              models.BlogState
	tags               []string
}

var seedBlogs = []seedBlog{
	{"Getting started with the blog API", "How to sign up, log in and publish a first post.", 3, models.BlogStatePublished, []string{"guide", "api"}},
	{"Drafts, publishing and visibility", "Why drafts stay private until their author publishes them.", 5, models.BlogStatePublished, []string{"guide", "publishing"}},
	{"Searching and sorting the public feed", "Filtering published posts by text and ordering by popularity.", 8, models.BlogStatePublished, []string{"search"}},
	{"Notes for a future post", "An unpublished draft only its author can read.", 2, models.BlogStateDraft, nil},
}

func (b seedBlog) body() string {
	return strings.TrimSpace(strings.Repeat(seedParagraph+"\n\n", b.paragraphs))
}

const seedParagraph = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod " +
	"tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis " +
	"nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat."

// Seed populates an empty database with a demo author and sample blogs.
// It is a no-op when any user already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var authorID string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, SeedEmail, string(hash), "Demo", "Author").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	for _, b := range seedBlogs {
		body := b.body()
		tags := models.NormalizeTags(b.tags)
		_, err := tx.Exec(`
			INSERT INTO blogs (title, description, body, author_id, state, reading_time, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, b.title, b.description, body, authorID, string(b.state), models.ReadingTime(body), tags)
		if err != nil {
			return fmt.Errorf("seed insert blog %q: %w", b.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	log.Info().
		Str("email", SeedEmail).
		Str("password", SeedPassword).
		Int("blogs", len(seedBlogs)).
		Msg("database seeded with demo author")

	return nil
}

// SeedUsers is the user repository subset SeedStore writes through.
type SeedUsers interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// SeedBlogs is the blog repository subset SeedStore writes through.
type SeedBlogs interface {
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
}

// SeedStore writes the demo author and sample blogs through repositories,
// for backends without SQL such as the in-memory store. It is a no-op when
// the demo author already exists.
func SeedStore(ctx context.Context, users SeedUsers, blogs SeedBlogs) error {
	existing, err := users.FindByEmail(ctx, SeedEmail)
	if err != nil {
		return fmt.Errorf("seed check author: %w", err)
	}
	if existing != nil {
		log.Info().Msg("store already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	author, err := users.Create(ctx, &models.User{
		Email:        SeedEmail,
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "Author",
	})
	if err != nil {
		return fmt.Errorf("seed create author: %w", err)
	}

	for _, b := range seedBlogs {
		body := b.body()
		_, err := blogs.Create(ctx, &models.Blog{
			Title:       b.title,
			Description: b.description,
			Body:        body,
			AuthorID:    author.ID,
			State:       b.state,
			ReadingTime: models.ReadingTime(body),
			Tags:        models.NormalizeTags(b.tags),
		})
		if err != nil {
			return fmt.Errorf("seed create blog %q: %w", b.title, err)
		}
	}

	log.Info().
		Str("email", SeedEmail).
		Str("password", SeedPassword).
		Int("blogs", len(seedBlogs)).
		Msg("store seeded with demo author")

	return nil
}

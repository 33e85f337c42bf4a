package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogapi/internal/models"
	"blogapi/internal/query"
)

// blogSelect reads a blog row aliased b together with its author u. Every
// statement that returns blogs ends with this projection so the author is
// always populated.
const blogSelect = `
	SELECT b.id, b.title, b.description, b.body, b.author_id, b.state,
	       b.read_count, b.reading_time, array_to_json(b.tags),
	       b.created_at, b.updated_at,
	       u.id, u.email, u.first_name, u.last_name, u.created_at, u.updated_at
`

// returningBlog wraps a data-modifying statement that ends in RETURNING *
// so its row comes back joined to the author in the same round trip.
func returningBlog(stmt string) string {
	return `WITH b AS (` + stmt + ` RETURNING *)` + blogSelect + `FROM b JOIN users u ON u.id = b.author_id`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*models.Blog, error) {
	b := &models.Blog{Author: &models.Author{}}
	var tags stringList
	err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.Body, &b.AuthorID, &b.State,
		&b.ReadCount, &b.ReadingTime, &tags,
		&b.CreatedAt, &b.UpdatedAt,
		&b.Author.ID, &b.Author.Email, &b.Author.FirstName, &b.Author.LastName,
		&b.Author.CreatedAt, &b.Author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Tags = tags
	return b, nil
}

// BlogStore handles all blog-related database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

// Create inserts a blog and returns it with its generated id and timestamps.
// A taken title yields ErrDuplicateTitle.
func (s *BlogStore) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, returningBlog(`
		INSERT INTO blogs (title, description, body, author_id, state, reading_time, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`), b.Title, b.Description, b.Body, b.AuthorID, string(b.State), b.ReadingTime, tagsArg(b.Tags))

	created, err := scanBlog(row)
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", mapConstraint(err))
	}
	return created, nil
}

// FindByID retrieves a blog by id regardless of state. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, blogSelect+`
		FROM blogs b JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`, id)

	b, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// Update applies the present fields of patch. Author and state are never
// touched here. Returns nil if the blog does not exist.
func (s *BlogStore) Update(ctx context.Context, id uuid.UUID, patch models.BlogPatch) (*models.Blog, error) {
	var args query.Args
	where := args.Add(id)

	sets := make([]string, 0, 6)
	if patch.Title != nil {
		sets = append(sets, "title = "+args.Add(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+args.Add(*patch.Description))
	}
	if patch.Body != nil {
		sets = append(sets, "body = "+args.Add(*patch.Body))
	}
	if patch.ReadingTime != nil {
		sets = append(sets, "reading_time = "+args.Add(*patch.ReadingTime))
	}
	if patch.Tags != nil {
		sets = append(sets, "tags = "+args.Add(tagsArg(*patch.Tags)))
	}
	sets = append(sets, "updated_at = NOW()")

	row := s.db.QueryRowContext(ctx, returningBlog(
		`UPDATE blogs SET `+strings.Join(sets, ", ")+` WHERE id = `+where,
	), args.Values()...)

	b, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", mapConstraint(err))
	}
	return b, nil
}

// Delete permanently removes a blog. It reports whether a row was removed;
// deleting a missing id is not an error.
func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete blog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete blog rows: %w", err)
	}
	return n > 0, nil
}

// SetState changes only the state of a blog. Returns nil if not found.
func (s *BlogStore) SetState(ctx context.Context, id uuid.UUID, state models.BlogState) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, returningBlog(`
		UPDATE blogs SET state = $2, updated_at = NOW() WHERE id = $1
	`), id, string(state))

	b, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set blog state: %w", err)
	}
	return b, nil
}

// IncrementReadCount adds one to read_count and returns the updated blog in
// a single statement, so concurrent readers never lose an increment.
// Returns nil if not found.
func (s *BlogStore) IncrementReadCount(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, returningBlog(`
		UPDATE blogs SET read_count = read_count + 1 WHERE id = $1
	`), id)

	b, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment read count: %w", err)
	}
	return b, nil
}

// List returns one page of blogs matching q and the total number of
// matches. Both reads run in one repeatable-read snapshot so the total
// agrees with the page.
func (s *BlogStore) List(ctx context.Context, q query.Query) ([]models.Blog, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs begin: %w", err)
	}
	defer tx.Rollback()

	var args query.Args
	from := `FROM blogs b JOIN users u ON u.id = b.author_id WHERE ` + q.Where(&args)

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) `+from, args.Values()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	limit := args.Add(q.Page.Limit)
	offset := args.Add(q.Page.Offset())
	rows, err := tx.QueryContext(ctx,
		blogSelect+from+` ORDER BY `+q.Sort.SQL()+` LIMIT `+limit+` OFFSET `+offset,
		args.Values()...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]models.Blog, 0, q.Page.Limit)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list blogs rows: %w", err)
	}

	return blogs, total, tx.Commit()
}

// tagsArg never passes a nil slice, which would encode as NULL.
func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"newsroom/internal/domain"
)

const articleColumns = `
	id, title, body, image_url, author_id, author_name, author_role,
	status, view_count, like_count, virality_score, created_at, updated_at`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO articles (
			id, title, body, image_url, author_id, author_name, author_role,
			status, view_count, like_count, virality_score, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10, $11
		)`

	_, err := s.db.ExecContext(ctx, query,
		id,
		article.Title,
		article.Body,
		article.ImageURL,
		article.AuthorID,
		article.AuthorName,
		article.AuthorRole,
		article.Status,
		article.ViralityScore,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return "", remote("insert article", err)
	}
	return id, nil
}

func (s *ArticleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	err := s.db.GetContext(ctx, &article, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, remote("get article", err)
	}
	return &article, nil
}

// Update writes only the fields present in the patch plus updated_at, as a
// single statement. Counters and the virality score are never part of it.
func (s *ArticleStore) Update(ctx context.Context, id string, patch domain.ArticlePatch, updatedAt time.Time) error {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id, updatedAt}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Body != nil {
		args = append(args, *patch.Body)
		sets = append(sets, fmt.Sprintf("body = $%d", len(args)))
	}
	if patch.ImageURL != nil {
		args = append(args, *patch.ImageURL)
		sets = append(sets, fmt.Sprintf("image_url = NULLIF($%d, '')", len(args)))
	}

	query := "UPDATE articles SET " + strings.Join(sets, ", ") + " WHERE id = $1"

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return remote("update article", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return remote("delete article", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Increment applies a relative delta to a counter column. The single UPDATE
// statement is atomic relative to concurrent increments on the same row, so
// no concurrent call is ever lost.
func (s *ArticleStore) Increment(ctx context.Context, id string, field domain.CounterField, delta int64) error {
	switch field {
	case domain.CounterViews, domain.CounterLikes:
	default:
		return fmt.Errorf("counter %q: %w", field, domain.ErrValidation)
	}

	query := fmt.Sprintf("UPDATE articles SET %s = %s + $2 WHERE id = $1", field, field)

	res, err := s.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return remote("increment counter", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *ArticleStore) ListTopByViews(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY view_count DESC LIMIT $1`
	return s.list(ctx, query, limit)
}

func (s *ArticleStore) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC LIMIT $1`
	return s.list(ctx, query, limit)
}

func (s *ArticleStore) ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE author_id = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, authorID)
}

func (s *ArticleStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.Article, error) {
	var articles []domain.Article
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, remote("list articles", err)
	}
	return articles, nil
}

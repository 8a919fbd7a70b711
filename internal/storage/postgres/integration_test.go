//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"newsroom/internal/domain"
	"newsroom/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_accounts.up.sql"),
			filepath.Join(migrationsPath, "002_create_articles.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM accounts")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) newAccount(id string) *domain.Account {
	return &domain.Account{
		ID:        id,
		Email:     id + "@example.com",
		Role:      domain.RoleJournalist,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresIntegrationSuite) newArticle(authorID string) *domain.Article {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Article{
		Title:         "Test Article",
		Body:          "Test body",
		ImageURL:      utils.Ptr("https://example.com/image.jpg"),
		AuthorID:      authorID,
		AuthorName:    "Test Author",
		AuthorRole:    domain.RoleJournalist,
		Status:        domain.ArticleStatusPublished,
		ViralityScore: 12.5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *PostgresIntegrationSuite) TestAccountStore_CreateGetApprove() {
	store := NewAccountStore(s.db)

	account := s.newAccount("uid-1")
	s.Require().NoError(store.Create(s.ctx, account))

	got, err := store.Get(s.ctx, "uid-1")
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, got.Status)
	s.Equal(domain.RoleJournalist, got.Role)

	s.Require().NoError(store.UpdateApproval(s.ctx, "uid-1", domain.StatusApproved, domain.RoleAdministrator))

	got, err = store.Get(s.ctx, "uid-1")
	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, got.Status)
	s.Equal(domain.RoleAdministrator, got.Role)
}

func (s *PostgresIntegrationSuite) TestAccountStore_DuplicateEmailConflicts() {
	store := NewAccountStore(s.db)

	first := s.newAccount("uid-1")
	s.Require().NoError(store.Create(s.ctx, first))

	second := s.newAccount("uid-2")
	second.Email = first.Email

	err := store.Create(s.ctx, second)
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *PostgresIntegrationSuite) TestAccountStore_NotFound() {
	store := NewAccountStore(s.db)

	_, err := store.Get(s.ctx, "ghost")
	s.ErrorIs(err, domain.ErrNotFound)

	err = store.UpdateApproval(s.ctx, "ghost", domain.StatusApproved, domain.RoleJournalist)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestAccountStore_ListByStatus() {
	store := NewAccountStore(s.db)

	s.Require().NoError(store.Create(s.ctx, s.newAccount("uid-1")))
	s.Require().NoError(store.Create(s.ctx, s.newAccount("uid-2")))
	s.Require().NoError(store.UpdateApproval(s.ctx, "uid-2", domain.StatusApproved, domain.RoleJournalist))

	pending, err := store.ListByStatus(s.ctx, domain.StatusPending)
	s.Require().NoError(err)
	s.Len(pending, 1)
	s.Equal("uid-1", pending[0].ID)
}

func (s *PostgresIntegrationSuite) TestArticleStore_CreateGet() {
	store := NewArticleStore(s.db)

	id, err := store.Create(s.ctx, s.newArticle("uid-1"))
	s.Require().NoError(err)
	s.NotEmpty(id)

	got, err := store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Test Article", got.Title)
	s.Equal(int64(0), got.ViewCount)
	s.Equal(int64(0), got.LikeCount)
	s.Equal(12.5, got.ViralityScore)
	s.Require().NotNil(got.ImageURL)
	s.Equal("https://example.com/image.jpg", *got.ImageURL)
}

func (s *PostgresIntegrationSuite) TestArticleStore_UpdatePatch() {
	store := NewArticleStore(s.db)

	id, err := store.Create(s.ctx, s.newArticle("uid-1"))
	s.Require().NoError(err)

	updatedAt := time.Now().UTC().Truncate(time.Microsecond)
	err = store.Update(s.ctx, id, domain.ArticlePatch{
		Title:    utils.Ptr("New title"),
		ImageURL: utils.Ptr(""),
	}, updatedAt)
	s.Require().NoError(err)

	got, err := store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("New title", got.Title)
	s.Equal("Test body", got.Body, "absent patch fields untouched")
	s.Nil(got.ImageURL, "empty string clears the image")
	s.WithinDuration(updatedAt, got.UpdatedAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestArticleStore_Delete() {
	store := NewArticleStore(s.db)

	id, err := store.Create(s.ctx, s.newArticle("uid-1"))
	s.Require().NoError(err)

	s.Require().NoError(store.Delete(s.ctx, id))

	_, err = store.Get(s.ctx, id)
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(store.Delete(s.ctx, id), domain.ErrNotFound)
}

// N concurrent relative increments must sum exactly, never lose one.
func (s *PostgresIntegrationSuite) TestArticleStore_ConcurrentIncrements() {
	store := NewArticleStore(s.db)

	id, err := store.Create(s.ctx, s.newArticle("uid-1"))
	s.Require().NoError(err)

	const callers = 40
	var wg sync.WaitGroup
	errs := make(chan error, callers*2)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Increment(s.ctx, id, domain.CounterViews, 1)
			errs <- store.Increment(s.ctx, id, domain.CounterLikes, 1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	got, err := store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(callers), got.ViewCount)
	s.Equal(int64(callers), got.LikeCount)
}

func (s *PostgresIntegrationSuite) TestArticleStore_IncrementUnknownArticle() {
	store := NewArticleStore(s.db)

	err := store.Increment(s.ctx, "ghost", domain.CounterViews, 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestArticleStore_Listings() {
	store := NewArticleStore(s.db)

	first := s.newArticle("uid-1")
	first.Title = "first"
	firstID, err := store.Create(s.ctx, first)
	s.Require().NoError(err)

	second := s.newArticle("uid-2")
	second.Title = "second"
	second.CreatedAt = second.CreatedAt.Add(time.Second)
	second.UpdatedAt = second.CreatedAt
	secondID, err := store.Create(s.ctx, second)
	s.Require().NoError(err)

	s.Require().NoError(store.Increment(s.ctx, firstID, domain.CounterViews, 3))
	s.Require().NoError(store.Increment(s.ctx, secondID, domain.CounterViews, 1))

	top, err := store.ListTopByViews(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(firstID, top[0].ID)

	recent, err := store.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(secondID, recent[0].ID)

	byAuthor, err := store.ListByAuthor(s.ctx, "uid-1")
	s.Require().NoError(err)
	s.Require().Len(byAuthor, 1)
	s.Equal(firstID, byAuthor[0].ID)
}

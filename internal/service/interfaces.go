package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"newsroom/internal/domain"
)

// AccountStore persists user accounts in the external document store.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error)
	UpdateApproval(ctx context.Context, id string, status domain.AccountStatus, role domain.Role) error
}

// ArticleStore persists articles. Increment must be a relative, atomic
// update on the named counter field; implementations must never express it
// as a read-modify-write of a cached value.
type ArticleStore interface {
	Create(ctx context.Context, article *domain.Article) (string, error)
	Get(ctx context.Context, id string) (*domain.Article, error)
	Update(ctx context.Context, id string, patch domain.ArticlePatch, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Increment(ctx context.Context, id string, field domain.CounterField, delta int64) error
	ListTopByViews(ctx context.Context, limit int) ([]domain.Article, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error)
}

// IdentityProvider issues and verifies authenticated-user handles.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.ActorHandle, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	Verify(ctx context.Context, token string) (*domain.ActorHandle, error)
}

// EventPublisher emits editorial events after successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// Analyzer is the remote text-analysis service: free-form prompt in,
// free-form text out. The response is opaque to this service.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

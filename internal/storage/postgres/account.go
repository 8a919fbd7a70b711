package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"newsroom/internal/domain"
)

type AccountStore struct {
	db *sqlx.DB
}

func NewAccountStore(db *sqlx.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, display_name, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.DisplayName,
		account.Role,
		account.Status,
		account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("account %s: %w", account.ID, domain.ErrConflict)
		}
		return remote("insert account", err)
	}
	return nil
}

func (s *AccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	query := `
		SELECT id, email, display_name, role, status, created_at
		FROM accounts
		WHERE id = $1`

	err := s.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, remote("get account", err)
	}
	return &account, nil
}

func (s *AccountStore) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	query := `
		SELECT id, email, display_name, role, status, created_at
		FROM accounts
		WHERE status = $1
		ORDER BY created_at`

	var accounts []domain.Account
	if err := s.db.SelectContext(ctx, &accounts, query, status); err != nil {
		return nil, remote("list accounts", err)
	}
	return accounts, nil
}

func (s *AccountStore) UpdateApproval(ctx context.Context, id string, status domain.AccountStatus, role domain.Role) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET status = $2, role = $3 WHERE id = $1`,
		id, status, role,
	)
	if err != nil {
		return remote("update approval", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

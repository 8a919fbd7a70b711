package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsroom/internal/domain"
	"newsroom/internal/policy"
)

const minPasswordLength = 6

// Registry manages the self-registration -> approval pipeline for accounts.
type Registry struct {
	accounts AccountStore
	identity IdentityProvider
	events   EventPublisher
	logger   *slog.Logger
}

func NewRegistry(
	accounts AccountStore,
	identity IdentityProvider,
	events EventPublisher,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		accounts: accounts,
		identity: identity,
		events:   events,
		logger:   logger,
	}
}

// Register creates an identity-provider credential and a pending account.
// The requested role is recorded as-is; it only takes effect once an
// administrator approves the account.
func (r *Registry) Register(ctx context.Context, email, password string, requested domain.Role) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q is malformed: %w", email, domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must have at least %d characters: %w", minPasswordLength, domain.ErrValidation)
	}
	if requested == "" {
		requested = domain.RoleJournalist
	}
	if !requested.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", requested, domain.ErrValidation)
	}

	handle, err := r.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	account := &domain.Account{
		ID:        handle.UID,
		Email:     handle.Email,
		Role:      requested,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	r.logger.Info("account registered",
		"account_id", account.ID,
		"requested_role", account.Role,
	)
	return account, nil
}

// Get resolves an account by its identity-provider uid.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := r.accounts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

// ListPending returns accounts awaiting approval. Authorization is enforced
// at the call site; the registry trusts that the caller already asked the
// policy for view_pending_accounts.
func (r *Registry) ListPending(ctx context.Context) ([]domain.Account, error) {
	accounts, err := r.accounts.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending accounts: %w", err)
	}
	return accounts, nil
}

// Approve transitions a pending account to approved and grants it a role.
// Approving an account that is already approved with the same role is a
// no-op; any other finalized state is a conflict. Approved and rejected are
// terminal, there is no revocation path.
func (r *Registry) Approve(ctx context.Context, actor *domain.Account, accountID string, granted domain.Role) (*domain.Account, error) {
	if err := policy.Check(actor, policy.ActionApproveAccount, nil); err != nil {
		return nil, err
	}
	if !granted.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", granted, domain.ErrValidation)
	}

	account, err := r.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if account.Status == domain.StatusApproved && account.Role == granted {
		return account, nil
	}
	if account.Status != domain.StatusPending {
		return nil, fmt.Errorf("account %s is already %s: %w", accountID, account.Status, domain.ErrConflict)
	}

	if err := r.accounts.UpdateApproval(ctx, accountID, domain.StatusApproved, granted); err != nil {
		return nil, fmt.Errorf("approve account: %w", err)
	}
	account.Status = domain.StatusApproved
	account.Role = granted

	r.publishEvent(ctx, domain.Event{
		Kind:       domain.EventAccountApproved,
		Account:    account,
		OccurredAt: time.Now().UTC(),
	})

	r.logger.Info("account approved",
		"account_id", account.ID,
		"granted_role", granted,
		"approved_by", actor.ID,
	)
	return account, nil
}

// Reject transitions a pending account to rejected. Modeled for
// completeness; no HTTP route exposes it yet.
func (r *Registry) Reject(ctx context.Context, actor *domain.Account, accountID string) (*domain.Account, error) {
	if err := policy.Check(actor, policy.ActionApproveAccount, nil); err != nil {
		return nil, err
	}

	account, err := r.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account.Status == domain.StatusRejected {
		return account, nil
	}
	if account.Status != domain.StatusPending {
		return nil, fmt.Errorf("account %s is already %s: %w", accountID, account.Status, domain.ErrConflict)
	}

	if err := r.accounts.UpdateApproval(ctx, accountID, domain.StatusRejected, account.Role); err != nil {
		return nil, fmt.Errorf("reject account: %w", err)
	}
	account.Status = domain.StatusRejected

	r.logger.Info("account rejected",
		"account_id", account.ID,
		"rejected_by", actor.ID,
	)
	return account, nil
}

// Event publishing is best-effort: the mutation has already committed, so a
// broker failure is logged and not surfaced to the caller.
func (r *Registry) publishEvent(ctx context.Context, event domain.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, event); err != nil {
		r.logger.Warn("publish event failed", "kind", event.Kind, "error", err)
	}
}

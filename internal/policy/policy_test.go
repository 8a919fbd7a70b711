package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/internal/domain"
)

func account(id string, role domain.Role, status domain.AccountStatus) *domain.Account {
	return &domain.Account{ID: id, Email: id + "@example.com", Role: role, Status: status}
}

func article(authorID string) *domain.Article {
	return &domain.Article{ID: "art-1", AuthorID: authorID, Status: domain.ArticleStatusPublished}
}

var allActions = []Action{
	ActionRegister,
	ActionReadPublished,
	ActionPublish,
	ActionEditArticle,
	ActionDeleteArticle,
	ActionLike,
	ActionApproveAccount,
	ActionViewPendingAccounts,
}

func TestDecide_AnonymousActor(t *testing.T) {
	for _, action := range allActions {
		d := Decide(nil, action, article("someone"))
		switch action {
		case ActionRegister, ActionReadPublished:
			assert.True(t, d.Allowed, "anonymous %s", action)
		default:
			assert.False(t, d.Allowed, "anonymous %s", action)
			assert.NotEmpty(t, d.Reason)
		}
	}
}

func TestDecide_UnapprovedActorDeniedEverythingButReadAndLike(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleJournalist, domain.RoleAdministrator} {
		for _, status := range []domain.AccountStatus{domain.StatusPending, domain.StatusRejected} {
			actor := account("u1", role, status)
			for _, action := range allActions {
				d := Decide(actor, action, article("u1"))
				switch action {
				case ActionReadPublished, ActionLike:
					assert.True(t, d.Allowed, "%s/%s %s", role, status, action)
				default:
					assert.False(t, d.Allowed, "%s/%s %s", role, status, action)
				}
			}
		}
	}
}

func TestDecide_PublishAllowedForAnyApprovedRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleJournalist, domain.RoleAdministrator} {
		d := Decide(account("u1", role, domain.StatusApproved), ActionPublish, nil)
		assert.True(t, d.Allowed, "approved %s publish", role)
	}
}

// The four owner/admin combinations for edit and delete.
func TestDecide_EditDeleteOwnershipMatrix(t *testing.T) {
	target := article("owner")

	cases := []struct {
		name    string
		actor   *domain.Account
		allowed bool
	}{
		{"owner journalist", account("owner", domain.RoleJournalist, domain.StatusApproved), true},
		{"other journalist", account("intruder", domain.RoleJournalist, domain.StatusApproved), false},
		{"non-owner administrator", account("admin", domain.RoleAdministrator, domain.StatusApproved), true},
		{"owner administrator", account("owner", domain.RoleAdministrator, domain.StatusApproved), true},
	}

	for _, tc := range cases {
		for _, action := range []Action{ActionEditArticle, ActionDeleteArticle} {
			d := Decide(tc.actor, action, target)
			assert.Equal(t, tc.allowed, d.Allowed, "%s %s", tc.name, action)
		}
	}
}

func TestDecide_EditWithoutTargetDenied(t *testing.T) {
	actor := account("admin", domain.RoleAdministrator, domain.StatusApproved)
	assert.False(t, Decide(actor, ActionEditArticle, nil).Allowed)
	assert.False(t, Decide(actor, ActionDeleteArticle, nil).Allowed)
}

func TestDecide_AdminOnlyActions(t *testing.T) {
	journalist := account("j1", domain.RoleJournalist, domain.StatusApproved)
	admin := account("a1", domain.RoleAdministrator, domain.StatusApproved)

	for _, action := range []Action{ActionApproveAccount, ActionViewPendingAccounts} {
		assert.False(t, Decide(journalist, action, nil).Allowed, "journalist %s", action)
		assert.True(t, Decide(admin, action, nil).Allowed, "admin %s", action)
	}
}

func TestDecide_UnknownActionDenied(t *testing.T) {
	admin := account("a1", domain.RoleAdministrator, domain.StatusApproved)
	assert.False(t, Decide(admin, Action("rewrite_history"), nil).Allowed)
	assert.False(t, Decide(nil, Action(""), nil).Allowed)
}

// Re-evaluating the identical input always yields the identical decision.
func TestDecide_Deterministic(t *testing.T) {
	actors := []*domain.Account{
		nil,
		account("u1", domain.RoleJournalist, domain.StatusPending),
		account("u1", domain.RoleJournalist, domain.StatusApproved),
		account("u1", domain.RoleAdministrator, domain.StatusApproved),
	}
	targets := []*domain.Article{nil, article("u1"), article("u2")}

	for _, actor := range actors {
		for _, action := range allActions {
			for _, target := range targets {
				first := Decide(actor, action, target)
				for i := 0; i < 3; i++ {
					assert.Equal(t, first, Decide(actor, action, target))
				}
			}
		}
	}
}

func TestCheck_WrapsPermissionError(t *testing.T) {
	err := Check(nil, ActionPublish, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPermission))
	assert.Contains(t, err.Error(), "authentication required")

	require.NoError(t, Check(account("u1", domain.RoleJournalist, domain.StatusApproved), ActionPublish, nil))
}

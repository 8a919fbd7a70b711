// Package policy is the single authorization authority. Every mutating
// operation asks Decide before executing; no other component checks role or
// status on its own.
package policy

import (
	"fmt"

	"newsroom/internal/domain"
)

type Action string

const (
	ActionRegister            Action = "register"
	ActionReadPublished       Action = "read_published"
	ActionPublish             Action = "publish"
	ActionEditArticle         Action = "edit_article"
	ActionDeleteArticle       Action = "delete_article"
	ActionLike                Action = "like"
	ActionApproveAccount      Action = "approve_account"
	ActionViewPendingAccounts Action = "view_pending_accounts"
)

// Decision is the outcome of an authorization question. Reason is set only
// on denials.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide answers whether actor may perform action on target. It is total:
// defined for every combination of a possibly nil actor, any action value and
// a possibly nil target. It is deterministic and free of side effects.
//
// Rules, in evaluation order:
//
//  1. no actor: only register and reading published content are open;
//  2. liking needs authentication only, any account status;
//  3. an actor that is not approved may only read published content;
//  4. publishing is open to every approved actor regardless of role;
//  5. editing or deleting an article requires being its author or an
//     administrator;
//  6. approving accounts and viewing the pending queue require an
//     administrator;
//  7. anything else is denied.
func Decide(actor *domain.Account, action Action, target *domain.Article) Decision {
	if actor == nil {
		switch action {
		case ActionRegister, ActionReadPublished:
			return allow()
		}
		return deny("authentication required")
	}

	if action == ActionLike {
		return allow()
	}

	if !actor.Approved() {
		if action == ActionReadPublished {
			return allow()
		}
		return deny("account not approved")
	}

	switch action {
	case ActionRegister, ActionReadPublished:
		return allow()
	case ActionPublish:
		return allow()
	case ActionEditArticle, ActionDeleteArticle:
		if target == nil {
			return deny("no target article")
		}
		if actor.ID == target.AuthorID || actor.IsAdmin() {
			return allow()
		}
		return deny("not the author and not an administrator")
	case ActionApproveAccount, ActionViewPendingAccounts:
		if actor.IsAdmin() {
			return allow()
		}
		return deny("administrator required")
	}
	return deny("unknown action")
}

// Check wraps a denial into domain.ErrPermission, keeping the reason.
func Check(actor *domain.Account, action Action, target *domain.Article) error {
	if d := Decide(actor, action, target); !d.Allowed {
		return fmt.Errorf("%s: %s: %w", action, d.Reason, domain.ErrPermission)
	}
	return nil
}

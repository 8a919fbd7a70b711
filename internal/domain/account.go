package domain

import "time"

type Role string

const (
	RoleJournalist    Role = "journalist"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleJournalist || r == RoleAdministrator
}

type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
)

// Account is a contributor or administrator record. ID is the identity
// provider's uid and never changes. Role and Status are mutated only through
// an approver action, never by the account holder.
type Account struct {
	ID          string        `db:"id" json:"id"`
	Email       string        `db:"email" json:"email"`
	DisplayName string        `db:"display_name" json:"display_name"`
	Role        Role          `db:"role" json:"role"`
	Status      AccountStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// Approved reports whether the account may act as publisher or approver.
func (a *Account) Approved() bool {
	return a != nil && a.Status == StatusApproved
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdministrator
}

// AuthorName is the by-line snapshotted onto articles at publication time:
// the display name when set, otherwise the local part of the email.
func (a *Account) AuthorName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	for i := 0; i < len(a.Email); i++ {
		if a.Email[i] == '@' {
			return a.Email[:i]
		}
	}
	return a.Email
}

// ActorHandle is the opaque authenticated-user handle issued by the identity
// provider before it is resolved to an Account.
type ActorHandle struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is a successful sign-in: the actor handle plus the bearer token
// that authenticates subsequent requests.
type Session struct {
	Handle ActorHandle `json:"handle"`
	Token  string      `json:"token"`
}

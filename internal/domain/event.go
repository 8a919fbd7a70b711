package domain

import "time"

// Event kinds emitted to the editorial event exchange.
const (
	EventArticlePublished = "article.published"
	EventArticleUpdated   = "article.updated"
	EventArticleDeleted   = "article.deleted"
	EventAccountApproved  = "account.approved"
)

// Event is the message published after a successful editorial mutation.
// Exactly one of Article or Account is set, depending on Kind.
type Event struct {
	Kind       string    `json:"kind"`
	Article    *Article  `json:"article,omitempty"`
	Account    *Account  `json:"account,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

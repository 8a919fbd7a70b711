package domain

import "time"

// ArticleStatusPublished is the only reachable status in the current
// lifecycle; the field exists so a draft state can be added later.
const ArticleStatusPublished = "published"

// Article is a published story. AuthorID is immutable after creation;
// AuthorName and AuthorRole are snapshots taken at publication time and are
// deliberately not re-derived when the author's account changes later.
// ViralityScore is computed exactly once at publication.
type Article struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Body          string    `db:"body" json:"body"`
	ImageURL      *string   `db:"image_url" json:"image_url,omitempty"`
	AuthorID      string    `db:"author_id" json:"author_id"`
	AuthorName    string    `db:"author_name" json:"author_name"`
	AuthorRole    Role      `db:"author_role" json:"author_role"`
	Status        string    `db:"status" json:"status"`
	ViewCount     int64     `db:"view_count" json:"view_count"`
	LikeCount     int64     `db:"like_count" json:"like_count"`
	ViralityScore float64   `db:"virality_score" json:"virality_score"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ArticlePatch carries the editable fields of an article. Nil means "leave
// unchanged"; counters, score and authorship are never patchable.
type ArticlePatch struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.ImageURL == nil
}

// CounterField names an article counter that mutates only through relative
// increments, never through a full-document write.
type CounterField string

const (
	CounterViews CounterField = "view_count"
	CounterLikes CounterField = "like_count"
)

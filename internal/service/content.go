package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsroom/internal/domain"
	"newsroom/internal/policy"
	"newsroom/internal/virality"
)

const defaultListLimit = 10

// Draft is the caller-supplied input for a new article. AuthorName is an
// optional by-line override; when blank the author's account name is used.
type Draft struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ImageURL   string `json:"image_url"`
	AuthorName string `json:"author_name"`
}

// Content owns the article lifecycle: policy-gated publish/edit/delete plus
// counter management and public read projections.
type Content struct {
	articles ArticleStore
	weights  virality.Weights
	events   EventPublisher
	logger   *slog.Logger
}

func NewContent(
	articles ArticleStore,
	weights virality.Weights,
	events EventPublisher,
	logger *slog.Logger,
) *Content {
	return &Content{
		articles: articles,
		weights:  weights,
		events:   events,
		logger:   logger,
	}
}

// Publish validates the draft, snapshots the author's by-line and role,
// computes the virality score and persists the article with zeroed
// counters. The score is never recomputed after publication, even if the
// keyword table changes later.
func (c *Content) Publish(ctx context.Context, actor *domain.Account, draft Draft) (*domain.Article, error) {
	if err := policy.Check(actor, policy.ActionPublish, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(draft.Title)
	body := strings.TrimSpace(draft.Body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("title and body are required: %w", domain.ErrValidation)
	}
	imageURL, err := normalizeImageURL(draft.ImageURL)
	if err != nil {
		return nil, err
	}

	authorName := strings.TrimSpace(draft.AuthorName)
	if authorName == "" {
		authorName = actor.AuthorName()
	}

	now := time.Now().UTC()
	article := &domain.Article{
		Title:         title,
		Body:          body,
		ImageURL:      imageURL,
		AuthorID:      actor.ID,
		AuthorName:    authorName,
		AuthorRole:    actor.Role,
		Status:        domain.ArticleStatusPublished,
		ViralityScore: virality.Score(title, body, c.weights),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := c.articles.Create(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	article.ID = id

	c.publishEvent(ctx, domain.Event{
		Kind:       domain.EventArticlePublished,
		Article:    article,
		OccurredAt: now,
	})

	c.logger.Info("article published",
		"article_id", article.ID,
		"author_id", article.AuthorID,
		"virality_score", article.ViralityScore,
	)
	return article, nil
}

// Get returns a single article. Reading published content is public.
func (c *Content) Get(ctx context.Context, id string) (*domain.Article, error) {
	article, err := c.articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	return article, nil
}

// Edit applies only the fields present in patch, gated by the policy on the
// loaded target. UpdatedAt is refreshed; the virality score and the
// counters are left untouched.
func (c *Content) Edit(ctx context.Context, actor *domain.Account, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	article, err := c.articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if err := policy.Check(actor, policy.ActionEditArticle, article); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("title must not be empty: %w", domain.ErrValidation)
		}
		patch.Title = &title
		article.Title = title
	}
	if patch.Body != nil {
		body := strings.TrimSpace(*patch.Body)
		if body == "" {
			return nil, fmt.Errorf("body must not be empty: %w", domain.ErrValidation)
		}
		patch.Body = &body
		article.Body = body
	}
	if patch.ImageURL != nil {
		imageURL, err := normalizeImageURL(*patch.ImageURL)
		if err != nil {
			return nil, err
		}
		article.ImageURL = imageURL
		// an empty string clears the image in the store
		cleared := ""
		if imageURL == nil {
			patch.ImageURL = &cleared
		} else {
			patch.ImageURL = imageURL
		}
	}

	now := time.Now().UTC()
	if err := c.articles.Update(ctx, id, patch, now); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	article.UpdatedAt = now

	c.publishEvent(ctx, domain.Event{
		Kind:       domain.EventArticleUpdated,
		Article:    article,
		OccurredAt: now,
	})

	c.logger.Info("article updated", "article_id", id, "editor_id", actor.ID)
	return article, nil
}

// Delete permanently removes an article, gated by the same ownership rule
// as Edit.
func (c *Content) Delete(ctx context.Context, actor *domain.Account, id string) error {
	article, err := c.articles.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	if err := policy.Check(actor, policy.ActionDeleteArticle, article); err != nil {
		return err
	}

	if err := c.articles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	c.publishEvent(ctx, domain.Event{
		Kind:       domain.EventArticleDeleted,
		Article:    article,
		OccurredAt: time.Now().UTC(),
	})

	c.logger.Info("article deleted", "article_id", id, "deleted_by", actor.ID)
	return nil
}

// RecordView adds exactly one view. Viewing is public, so there is no
// authorization gate, and the store does not deduplicate: repeated calls
// legitimately accumulate (at-least-once, not exactly-once).
func (c *Content) RecordView(ctx context.Context, id string) error {
	if err := c.articles.Increment(ctx, id, domain.CounterViews, 1); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// RecordLike adds exactly one like for an authenticated actor of any
// status. No per-actor ledger exists, so the same actor may like an article
// repeatedly; that is a known product gap, kept deliberately.
func (c *Content) RecordLike(ctx context.Context, actor *domain.Account, id string) error {
	if err := policy.Check(actor, policy.ActionLike, nil); err != nil {
		return err
	}
	if err := c.articles.Increment(ctx, id, domain.CounterLikes, 1); err != nil {
		return fmt.Errorf("record like: %w", err)
	}
	return nil
}

// ListTopByViews returns the most viewed articles, most viewed first.
func (c *Content) ListTopByViews(ctx context.Context, limit int) ([]domain.Article, error) {
	articles, err := c.articles.ListTopByViews(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list top articles: %w", err)
	}
	return articles, nil
}

// ListRecent returns the newest articles first.
func (c *Content) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	articles, err := c.articles.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	return articles, nil
}

// ListByAuthor returns all articles by one author, newest first.
func (c *Content) ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error) {
	articles, err := c.articles.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list articles by author: %w", err)
	}
	return articles, nil
}

func (c *Content) publishEvent(ctx context.Context, event domain.Event) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("publish event failed", "kind", event.Kind, "error", err)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func normalizeImageURL(raw string) (*string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return nil, nil
	}
	if !strings.HasPrefix(url, "http") {
		return nil, fmt.Errorf("image URL must start with http or https: %w", domain.ErrValidation)
	}
	return &url, nil
}

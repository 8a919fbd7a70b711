package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"newsroom/internal/domain"
	"newsroom/internal/policy"
	"newsroom/internal/service"
)

const actorKey = "actor"

type Handler struct {
	registry *service.Registry
	content  *service.Content
	review   *service.Review
	identity service.IdentityProvider
	logger   *slog.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHandler(
	registry *service.Registry,
	content *service.Content,
	review *service.Review,
	identity service.IdentityProvider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry: registry,
		content:  content,
		review:   review,
		identity: identity,
		logger:   logger,
	}
}

// requireActor resolves the bearer token to an account and aborts with 401
// when that fails. An account may be pending or rejected here; what it may
// do is decided per operation, not at the door.
func (h *Handler) requireActor(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
		return
	}

	handle, err := h.identity.Verify(c.Request.Context(), token)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	actor, err := h.registry.Get(c.Request.Context(), handle.UID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown account"})
			return
		}
		h.abortWithError(c, err)
		return
	}

	c.Set(actorKey, actor)
	c.Next()
}

func (h *Handler) actor(c *gin.Context) *domain.Account {
	value, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := value.(*domain.Account)
	return actor
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.registry.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	account, err := h.registry.Get(c.Request.Context(), session.Handle.UID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: session.Token, Account: account})
}

func (h *Handler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()

	if author := c.Query("author"); author != "" {
		articles, err := h.content.ListByAuthor(ctx, author)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
		return
	}

	articles, err := h.content.ListRecent(ctx, queryLimit(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) ListTopArticles(c *gin.Context) {
	articles, err := h.content.ListTopByViews(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticle returns the article and counts the read. The view is recorded
// best-effort; a counter failure never hides the article.
func (h *Handler) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	article, err := h.content.Get(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.content.RecordView(ctx, id); err != nil {
		h.logger.Warn("record view failed", "article_id", id, "error", err)
	} else {
		article.ViewCount++
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) PublishArticle(c *gin.Context) {
	var draft service.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	article, err := h.content.Publish(c.Request.Context(), h.actor(c), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *Handler) EditArticle(c *gin.Context) {
	var patch domain.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	article, err := h.content.Edit(c.Request.Context(), h.actor(c), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.content.Delete(c.Request.Context(), h.actor(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LikeArticle(c *gin.Context) {
	if err := h.content.RecordLike(c.Request.Context(), h.actor(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPendingAccounts(c *gin.Context) {
	if err := policy.Check(h.actor(c), policy.ActionViewPendingAccounts, nil); err != nil {
		h.writeError(c, err)
		return
	}

	accounts, err := h.registry.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

type approveRequest struct {
	Role domain.Role `json:"role"`
}

func (h *Handler) ApproveAccount(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.registry.Approve(c.Request.Context(), h.actor(c), c.Param("id"), req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

type reviewRequest struct {
	Text string `json:"text"`
}

type reviewResponse struct {
	Result string `json:"result"`
}

func (h *Handler) AnalyzeText(c *gin.Context) {
	h.runReview(c, h.review.Analyze)
}

func (h *Handler) SummarizeText(c *gin.Context) {
	h.runReview(c, h.review.Summarize)
}

func (h *Handler) VerifyClaim(c *gin.Context) {
	h.runReview(c, h.review.VerifyClaim)
}

func (h *Handler) runReview(c *gin.Context, fn func(ctx context.Context, text string) (string, error)) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := fn(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewResponse{Result: result})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountDisabled), errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}

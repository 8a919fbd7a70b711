// Package rest talks to the hosted identity provider over its REST API.
// Sign-in state is never cached here: every verified token yields an
// explicit actor handle that the caller threads through the services.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsroom/internal/domain"
)

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("client", "identity"),
	}
}

type accountResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
	Users   []struct {
		LocalID  string `json:"localId"`
		Email    string `json:"email"`
		Disabled bool   `json:"disabled"`
	} `json:"users"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates a credential and returns the issued handle.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.ActorHandle, error) {
	resp, err := c.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.ActorHandle{UID: resp.LocalID, Email: resp.Email}, nil
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := c.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Handle: domain.ActorHandle{UID: resp.LocalID, Email: resp.Email},
		Token:  resp.IDToken,
	}, nil
}

// Verify resolves a bearer token to the handle it was issued for.
func (c *Client) Verify(ctx context.Context, token string) (*domain.ActorHandle, error) {
	resp, err := c.post(ctx, "accounts:lookup", map[string]interface{}{
		"idToken": token,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, fmt.Errorf("token resolves to no user: %w", domain.ErrInvalidCredentials)
	}
	user := resp.Users[0]
	if user.Disabled {
		return nil, fmt.Errorf("user %s: %w", user.LocalID, domain.ErrAccountDisabled)
	}
	return &domain.ActorHandle{UID: user.LocalID, Email: user.Email}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) (*accountResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := fmt.Sprintf("%s/v1/%s?key=%s", c.baseURL, endpoint, c.apiKey)

	var resp *accountResponse
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		var retryable bool
		resp, retryable, err = c.doRequest(ctx, url, body)
		if err == nil {
			return resp, nil
		}
		if !retryable || attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, err
}

func (c *Client) doRequest(ctx context.Context, url string, body []byte) (*accountResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("execute request: %w: %w", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("provider status %d: %w", resp.StatusCode, domain.ErrRemote)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, false, c.mapAPIError(resp.Body)
	}

	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w: %w", domain.ErrRemote, err)
	}
	return &out, false, nil
}

// mapAPIError translates provider error codes into the domain taxonomy.
func (c *Client) mapAPIError(body io.Reader) error {
	var apiErr errorResponse
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&apiErr); err != nil {
		return fmt.Errorf("provider rejected request: %w", domain.ErrRemote)
	}

	message := apiErr.Error.Message
	switch {
	case message == "EMAIL_EXISTS":
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case message == "INVALID_EMAIL", strings.HasPrefix(message, "WEAK_PASSWORD"), strings.HasPrefix(message, "MISSING_PASSWORD"):
		return fmt.Errorf("%s: %w", message, domain.ErrValidation)
	case message == "EMAIL_NOT_FOUND", message == "INVALID_PASSWORD", message == "INVALID_LOGIN_CREDENTIALS", message == "INVALID_ID_TOKEN":
		return fmt.Errorf("%s: %w", message, domain.ErrInvalidCredentials)
	case message == "USER_DISABLED":
		return fmt.Errorf("%s: %w", message, domain.ErrAccountDisabled)
	}
	return fmt.Errorf("provider error %q: %w", message, domain.ErrRemote)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff * time.Duration(1<<(attempt-1))
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

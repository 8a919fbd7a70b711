package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsroom/internal/domain"
)

// Review runs article text through the remote analysis service. The
// response is opaque text shown to the user as-is; no correctness
// requirement is placed on it.
type Review struct {
	analyzer Analyzer
	logger   *slog.Logger
}

func NewReview(analyzer Analyzer, logger *slog.Logger) *Review {
	return &Review{analyzer: analyzer, logger: logger}
}

// Analyze asks whether a news story appears true or false.
func (r *Review) Analyze(ctx context.Context, text string) (string, error) {
	prompt := "Read the following news story and say whether it appears true or false, with a brief explanation:\n\n"
	return r.run(ctx, "analyze", prompt, text)
}

// Summarize condenses a news story into a few lines.
func (r *Review) Summarize(ctx context.Context, text string) (string, error) {
	prompt := "Summarize the following news story clearly in a few lines:\n\n"
	return r.run(ctx, "summarize", prompt, text)
}

// VerifyClaim asks for a true/false verdict on a single claim.
func (r *Review) VerifyClaim(ctx context.Context, text string) (string, error) {
	prompt := `Assess the following claim and determine whether it is predominantly true or false. Start your answer with "True:" or "False:" and add a very brief explanation. If it cannot be determined with reasonable confidence, start with "Undetermined:". Claim: `
	return r.run(ctx, "verify_claim", prompt, text)
}

func (r *Review) run(ctx context.Context, mode, prompt, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text is required: %w", domain.ErrValidation)
	}

	result, err := r.analyzer.Analyze(ctx, prompt+text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", mode, err)
	}

	r.logger.Debug("text reviewed", "mode", mode, "input_len", len(text))
	return result, nil
}

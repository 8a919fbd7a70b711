package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsroom/internal/domain"
	"newsroom/internal/service/mocks"
)

type ReviewTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	analyzer *mocks.MockAnalyzer
	review   *Review
}

func (s *ReviewTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.analyzer = mocks.NewMockAnalyzer(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.review = NewReview(s.analyzer, logger)
}

func (s *ReviewTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestReviewTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewTestSuite))
}

func (s *ReviewTestSuite) TestModesBuildDistinctPrompts() {
	ctx := context.Background()
	var prompts []string

	s.analyzer.EXPECT().Analyze(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return "model says", nil
		},
	).Times(3)

	for _, call := range []func(context.Context, string) (string, error){
		s.review.Analyze,
		s.review.Summarize,
		s.review.VerifyClaim,
	} {
		result, err := call(ctx, "  the moon landing happened  ")
		s.NoError(err)
		s.Equal("model says", result)
	}

	s.Len(prompts, 3)
	for _, p := range prompts {
		s.True(strings.HasSuffix(p, "the moon landing happened"), "text is trimmed and appended")
	}
	s.NotEqual(prompts[0], prompts[1])
	s.NotEqual(prompts[1], prompts[2])
}

func (s *ReviewTestSuite) TestEmptyTextRejected() {
	ctx := context.Background()

	_, err := s.review.Analyze(ctx, "   ")
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.review.Summarize(ctx, "")
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *ReviewTestSuite) TestRemoteFailurePropagates() {
	ctx := context.Background()

	s.analyzer.EXPECT().Analyze(ctx, gomock.Any()).Return("", domain.ErrRemote)

	_, err := s.review.VerifyClaim(ctx, "claim")
	s.ErrorIs(err, domain.ErrRemote)
}

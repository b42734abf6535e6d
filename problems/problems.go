// Package problems lists and shows problems to students and lets teachers
// publish new ones.
package problems

import (
	"context"
	"log/slog"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/logger"
)

type ProblemAPI interface {
	ListProblems(ctx context.Context, token string) ([]judgeapi.ProblemSummary, error)
	GetProblem(ctx context.Context, token string, id string) (*judgeapi.ProblemDetail, error)
	CreateProblem(ctx context.Context, token string, in judgeapi.ProblemCreate) (*judgeapi.ProblemDetail, error)
}

type TokenSource interface {
	Token() string
}

type Service struct {
	api    ProblemAPI
	tokens TokenSource
	logger *slog.Logger
}

func New(api ProblemAPI, tokens TokenSource) *Service {
	return &Service{api: api, tokens: tokens}
}

func (s *Service) WithLogger(l *slog.Logger) *Service {
	s.logger = l
	return s
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.FromContext(ctx)
}

func (s *Service) token() (string, error) {
	token := s.tokens.Token()
	if token == "" {
		return "", apierror.NewNotLoggedIn()
	}
	return token, nil
}

func (s *Service) List(ctx context.Context) ([]judgeapi.ProblemSummary, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.ListProblems(ctx, token)
}

func (s *Service) Get(ctx context.Context, id string) (*judgeapi.ProblemDetail, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.GetProblem(ctx, token, id)
}

// Create fills draft defaults, validates locally and publishes the problem.
// An invalid draft is refused with a *DraftError before any request.
func (s *Service) Create(ctx context.Context, draft Draft) (*judgeapi.ProblemDetail, error) {
	draft.FillDefaults()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	token, err := s.token()
	if err != nil {
		return nil, err
	}

	created, err := s.api.CreateProblem(ctx, token, draft.ToCreate())
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("problem created", "problem_id", created.ID, "slug", created.Slug)
	return created, nil
}

package judgefake

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/httpjson"
	"github.com/programme-lv/ojclient/judgeapi"
)

var errProblemNotFound = &apierror.AuthError{Status: http.StatusNotFound, Detail: "Problem not found"}

func (s *Server) seedProblems() {
	s.problems = append(s.problems,
		&problem{
			detail: judgeapi.ProblemDetail{
				ProblemSummary: judgeapi.ProblemSummary{
					ID:         uuid.NewString(),
					Title:      "Two Sum",
					Slug:       "two-sum",
					Difficulty: "easy",
					IsPublic:   true,
				},
				Description:   "Read two integers and print their sum.",
				TimeLimitMs:   1000,
				MemoryLimitMB: 256,
				Examples: []judgeapi.Example{
					{Input: "1 2", Output: "3"},
					{Input: "-5 5", Output: "0", Explanation: "negative numbers are allowed"},
				},
			},
			tests: []judgeapi.TestCase{
				{Input: "1 2", Output: "3", IsSample: true},
				{Input: "1000000 1000000", Output: "2000000"},
			},
		},
		&problem{
			detail: judgeapi.ProblemDetail{
				ProblemSummary: judgeapi.ProblemSummary{
					ID:         uuid.NewString(),
					Title:      "Reverse String",
					Slug:       "reverse-string",
					Difficulty: "medium",
					IsPublic:   true,
				},
				Description:   "Print the input line reversed.",
				TimeLimitMs:   2000,
				MemoryLimitMB: 256,
				Examples: []judgeapi.Example{
					{Input: "abc", Output: "cba"},
				},
			},
			tests: []judgeapi.TestCase{
				{Input: "abc", Output: "cba", IsSample: true},
				{Input: "racecar", Output: "racecar"},
			},
		},
	)
}

// ProblemBySlug looks a problem up regardless of visibility.
func (s *Server) ProblemBySlug(slug string) (judgeapi.ProblemDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.problems {
		if p.detail.Slug == slug {
			return p.detail, true
		}
	}
	return judgeapi.ProblemDetail{}, false
}

func (s *Server) findProblem(id string) *problem {
	for _, p := range s.problems {
		if p.detail.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) listProblems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := make([]judgeapi.ProblemSummary, 0, len(s.problems))
	for _, p := range s.problems {
		if p.detail.IsPublic {
			res = append(res, p.detail.ProblemSummary)
		}
	}
	s.mu.Unlock()

	httpjson.WriteJson(w, http.StatusOK, res)
}

func (s *Server) getProblem(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	p := s.findProblem(id)
	var detail judgeapi.ProblemDetail
	if p != nil {
		detail = p.detail
	}
	s.mu.Unlock()

	if p == nil || !detail.IsPublic {
		httpjson.HandleError(logger, w, errProblemNotFound)
		return
	}
	httpjson.WriteJson(w, http.StatusOK, detail)
}

func validateProblemCreate(in judgeapi.ProblemCreate) error {
	var fields []apierror.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, apierror.FieldError{Field: "title", Msg: "Field required"})
	}
	if strings.TrimSpace(in.Slug) == "" {
		fields = append(fields, apierror.FieldError{Field: "slug", Msg: "Field required"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, apierror.FieldError{Field: "description", Msg: "Field required"})
	}
	if len(fields) > 0 {
		return &apierror.ValidationError{Status: http.StatusUnprocessableEntity, Fields: fields}
	}

	if len(in.TestCases) == 0 {
		return &apierror.AuthError{Status: http.StatusBadRequest, Detail: "Problem must contain at least one test"}
	}
	if len(in.Examples) == 0 {
		return &apierror.AuthError{Status: http.StatusBadRequest, Detail: "Problem must contain at least one example"}
	}
	return nil
}

func (s *Server) createProblem(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := claimsFromContext(r.Context())

	if claims.Role != string(judgeapi.RoleTeacher) {
		httpjson.HandleError(logger, w, &apierror.AuthError{
			Status: http.StatusForbidden,
			Detail: "Teacher role required",
		})
		return
	}

	var in judgeapi.ProblemCreate
	if err := decodeBody(r, &in); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}
	if err := validateProblemCreate(in); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	s.mu.Lock()
	for _, p := range s.problems {
		if p.detail.Slug == in.Slug {
			s.mu.Unlock()
			httpjson.HandleError(logger, w, &apierror.AuthError{
				Status: http.StatusBadRequest,
				Detail: "A problem with this slug already exists",
			})
			return
		}
	}
	p := &problem{
		detail: judgeapi.ProblemDetail{
			ProblemSummary: judgeapi.ProblemSummary{
				ID:         uuid.NewString(),
				Title:      in.Title,
				Slug:       in.Slug,
				Difficulty: in.Difficulty,
				IsPublic:   in.IsPublic,
			},
			Description:   in.Description,
			TimeLimitMs:   in.TimeLimitMs,
			MemoryLimitMB: in.MemoryLimitMB,
			Examples:      in.Examples,
		},
		tests:    in.TestCases,
		authorID: claims.Subject,
	}
	s.problems = append(s.problems, p)
	s.mu.Unlock()

	logger.Info("problem created", "slug", in.Slug, "author", claims.Subject)
	httpjson.WriteJson(w, http.StatusCreated, p.detail)
}

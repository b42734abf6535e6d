package judgefake

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/httpjson"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/planglist"
)

const (
	minCodeLen = 10

	// the backend sends naive UTC timestamps
	createdAtLayout = "2006-01-02T15:04:05.000000"
)

func (s *Server) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := claimsFromContext(r.Context())

	var in judgeapi.SubmissionRequest
	if err := decodeBody(r, &in); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	var fields []apierror.FieldError
	if _, err := planglist.Get(in.Language); err != nil {
		fields = append(fields, apierror.FieldError{Field: "language", Msg: fmt.Sprintf("unsupported language %q", in.Language)})
	}
	if len([]rune(in.Code)) < minCodeLen {
		fields = append(fields, apierror.FieldError{
			Field: "code",
			Msg:   fmt.Sprintf("String should have at least %d characters", minCodeLen),
		})
	}
	if len(fields) > 0 {
		httpjson.HandleError(logger, w, &apierror.ValidationError{Status: http.StatusUnprocessableEntity, Fields: fields})
		return
	}

	s.mu.Lock()
	p := s.findProblem(in.ProblemID)
	var detail judgeapi.ProblemDetail
	if p != nil {
		detail = p.detail
	}
	s.mu.Unlock()
	if p == nil {
		httpjson.HandleError(logger, w, errProblemNotFound)
		return
	}

	outcome := s.judge(detail, in)
	verdict := judgeapi.Verdict{
		SubmissionID:    uuid.NewString(),
		UserID:          claims.Subject,
		ProblemID:       detail.ID,
		Status:          outcome.Status,
		Message:         "Verdict: " + outcome.Status,
		FinalStatus:     outcome.Status,
		ExecutionTimeMs: outcome.ExecutionTimeMs,
		MemoryUsedBytes: outcome.MemoryUsedBytes,
		Language:        in.Language,
		CreatedAt:       time.Now().UTC().Format(createdAtLayout),
	}

	s.mu.Lock()
	s.verdicts = append(s.verdicts, verdict)
	s.mu.Unlock()

	logger.Info("submission judged", "submission_id", verdict.SubmissionID, "status", verdict.Status)
	httpjson.WriteJson(w, http.StatusCreated, verdict)
}

package judgefake

import (
	"strings"

	"github.com/programme-lv/ojclient/codetmpl"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/planglist"
)

type Outcome struct {
	Status          string
	ExecutionTimeMs float64
	MemoryUsedBytes float64
}

// Judge decides a verdict. It runs outside the server lock.
type Judge func(p judgeapi.ProblemDetail, in judgeapi.SubmissionRequest) Outcome

// DefaultJudge rejects the untouched starter template and accepts anything
// else.
func DefaultJudge(p judgeapi.ProblemDetail, in judgeapi.SubmissionRequest) Outcome {
	out := Outcome{
		Status:          judgeapi.StatusAccepted,
		ExecutionTimeMs: 12,
		MemoryUsedBytes: 8 << 20,
	}

	tmpl, err := codetmpl.Generate(planglist.ID(in.Language), p.Slug)
	if err == nil && strings.TrimSpace(tmpl) == strings.TrimSpace(in.Code) {
		out.Status = "WRONG_ANSWER"
	}
	return out
}

// StaticJudge always answers with status.
func StaticJudge(status string) Judge {
	return func(judgeapi.ProblemDetail, judgeapi.SubmissionRequest) Outcome {
		return Outcome{Status: status, ExecutionTimeMs: 1, MemoryUsedBytes: 1 << 20}
	}
}

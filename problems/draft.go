package problems

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/programme-lv/ojclient/judgeapi"
)

var ErrInvalidDraft = errors.New("invalid problem draft")

const (
	CheckerExact  = "exact"
	CheckerTokens = "tokens"

	DefaultDifficulty    = "medium"
	DefaultTimeLimitSec  = 2
	DefaultMemoryLimitMB = 256
)

type Test struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

type Example struct {
	Input       string `toml:"input"`
	Output      string `toml:"output"`
	Explanation string `toml:"explanation"`
}

// Draft is the teacher's "create problem" form.
type Draft struct {
	Title         string    `toml:"title"`
	Slug          string    `toml:"slug"`
	Description   string    `toml:"description"`
	Difficulty    string    `toml:"difficulty"`
	CheckerType   string    `toml:"checker_type"`
	TimeLimitSec  int       `toml:"time_limit"`
	MemoryLimitMB int       `toml:"memory_limit"`
	IsPublic      bool      `toml:"is_public"`
	Examples      []Example `toml:"examples"`
	HiddenTests   []Test    `toml:"tests"`
}

// NewDraft returns a draft with the form's initial values.
func NewDraft() Draft {
	return Draft{
		Difficulty:    DefaultDifficulty,
		CheckerType:   CheckerExact,
		TimeLimitSec:  DefaultTimeLimitSec,
		MemoryLimitMB: DefaultMemoryLimitMB,
		Examples:      []Example{{}},
	}
}

// SetTitle updates the title and keeps an auto-generated slug in step with
// it. A slug the user typed by hand is left alone.
func (d *Draft) SetTitle(title string) {
	if d.Slug == "" || d.Slug == slug.Make(d.Title) {
		d.Slug = slug.Make(title)
	}
	d.Title = title
}

// FillDefaults generates a missing slug and applies initial values to
// zero fields.
func (d *Draft) FillDefaults() {
	if strings.TrimSpace(d.Slug) == "" {
		d.Slug = slug.Make(d.Title)
	}
	if d.Difficulty == "" {
		d.Difficulty = DefaultDifficulty
	}
	if d.CheckerType == "" {
		d.CheckerType = CheckerExact
	}
	if d.TimeLimitSec == 0 {
		d.TimeLimitSec = DefaultTimeLimitSec
	}
	if d.MemoryLimitMB == 0 {
		d.MemoryLimitMB = DefaultMemoryLimitMB
	}
}

// DraftError maps form fields to what is wrong with them.
type DraftError struct {
	Fields map[string]string
}

func (e *DraftError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDraft, strings.Join(parts, "; "))
}

func (e *DraftError) Unwrap() error {
	return ErrInvalidDraft
}

// Validate returns nil or a *DraftError.
func (d Draft) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(d.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(d.Slug) == "" {
		fields["slug"] = "slug is required"
	} else if !slug.IsSlug(strings.TrimSpace(d.Slug)) {
		fields["slug"] = "slug must be URL-safe, like two-sum"
	}
	if strings.TrimSpace(d.Description) == "" {
		fields["description"] = "description is required"
	}

	if len(d.Examples) == 0 {
		fields["examples"] = "add at least one example"
	}
	for _, ex := range d.Examples {
		if strings.TrimSpace(ex.Input) == "" || strings.TrimSpace(ex.Output) == "" {
			fields["examples"] = "every example needs an input and an output"
			break
		}
	}

	if d.CheckerType != "" && d.CheckerType != CheckerExact && d.CheckerType != CheckerTokens {
		fields["checker_type"] = fmt.Sprintf("checker must be %q or %q", CheckerExact, CheckerTokens)
	}
	if d.TimeLimitSec < 0 {
		fields["time_limit"] = "time limit must not be negative"
	}
	if d.MemoryLimitMB < 0 {
		fields["memory_limit"] = "memory limit must not be negative"
	}

	if len(fields) > 0 {
		return &DraftError{Fields: fields}
	}
	return nil
}

// ToCreate builds the request body. Examples are sent both as examples and
// as sample test cases, followed by the hidden tests.
func (d Draft) ToCreate() judgeapi.ProblemCreate {
	examples := make([]judgeapi.Example, 0, len(d.Examples))
	tests := make([]judgeapi.TestCase, 0, len(d.Examples)+len(d.HiddenTests))
	for _, ex := range d.Examples {
		examples = append(examples, judgeapi.Example{
			Input:       ex.Input,
			Output:      ex.Output,
			Explanation: ex.Explanation,
		})
		tests = append(tests, judgeapi.TestCase{Input: ex.Input, Output: ex.Output, IsSample: true})
	}
	for _, tc := range d.HiddenTests {
		tests = append(tests, judgeapi.TestCase{Input: tc.Input, Output: tc.Output})
	}

	return judgeapi.ProblemCreate{
		Title:         strings.TrimSpace(d.Title),
		Slug:          strings.TrimSpace(d.Slug),
		Description:   strings.TrimSpace(d.Description),
		Difficulty:    d.Difficulty,
		CheckerType:   d.CheckerType,
		TimeLimitMs:   d.TimeLimitSec * 1000,
		MemoryLimitMB: d.MemoryLimitMB,
		IsPublic:      d.IsPublic,
		Examples:      examples,
		TestCases:     tests,
	}
}

package problems_test

import (
	"context"
	"testing"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/problems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type problemAPIMock struct {
	list   func(ctx context.Context, token string) ([]judgeapi.ProblemSummary, error)
	get    func(ctx context.Context, token string, id string) (*judgeapi.ProblemDetail, error)
	create func(ctx context.Context, token string, in judgeapi.ProblemCreate) (*judgeapi.ProblemDetail, error)
}

func (m *problemAPIMock) ListProblems(ctx context.Context, token string) ([]judgeapi.ProblemSummary, error) {
	return m.list(ctx, token)
}

func (m *problemAPIMock) GetProblem(ctx context.Context, token string, id string) (*judgeapi.ProblemDetail, error) {
	return m.get(ctx, token, id)
}

func (m *problemAPIMock) CreateProblem(ctx context.Context, token string, in judgeapi.ProblemCreate) (*judgeapi.ProblemDetail, error) {
	return m.create(ctx, token, in)
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

func validDraft() problems.Draft {
	d := problems.NewDraft()
	d.SetTitle("Two Sum")
	d.Description = "Add two numbers."
	d.Examples = []problems.Example{{Input: "1 2", Output: "3", Explanation: "1+2"}}
	d.HiddenTests = []problems.Test{{Input: "5 5", Output: "10"}}
	return d
}

func TestSetTitleTracksGeneratedSlug(t *testing.T) {
	d := problems.NewDraft()
	d.SetTitle("Two Sum")
	assert.Equal(t, "two-sum", d.Slug)

	d.SetTitle("Three Sum")
	assert.Equal(t, "three-sum", d.Slug)

	d.Slug = "custom"
	d.SetTitle("Four Sum")
	assert.Equal(t, "custom", d.Slug, "hand-typed slug is kept")
}

func TestValidate(t *testing.T) {
	require.NoError(t, validDraft().Validate())

	testCases := []struct {
		name   string
		mutate func(d *problems.Draft)
		field  string
	}{
		{"missing title", func(d *problems.Draft) { d.Title = "  " }, "title"},
		{"missing slug", func(d *problems.Draft) { d.Slug = "" }, "slug"},
		{"bad slug", func(d *problems.Draft) { d.Slug = "Two Sum" }, "slug"},
		{"missing description", func(d *problems.Draft) { d.Description = "\n" }, "description"},
		{"no examples", func(d *problems.Draft) { d.Examples = nil }, "examples"},
		{"example without output", func(d *problems.Draft) {
			d.Examples = append(d.Examples, problems.Example{Input: "1"})
		}, "examples"},
		{"unknown checker", func(d *problems.Draft) { d.CheckerType = "fuzzy" }, "checker_type"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)

			err := d.Validate()
			require.ErrorIs(t, err, problems.ErrInvalidDraft)

			var draftErr *problems.DraftError
			require.ErrorAs(t, err, &draftErr)
			assert.Contains(t, draftErr.Fields, tc.field)
			assert.Len(t, draftErr.Fields, 1)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := problems.Draft{}.Validate()

	var draftErr *problems.DraftError
	require.ErrorAs(t, err, &draftErr)
	assert.ElementsMatch(t, []string{"title", "slug", "description", "examples"}, keys(draftErr.Fields))
	assert.Contains(t, err.Error(), "title: title is required")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestToCreate(t *testing.T) {
	d := validDraft()
	d.Title = "  Two Sum  "
	d.TimeLimitSec = 3

	req := d.ToCreate()
	assert.Equal(t, "Two Sum", req.Title)
	assert.Equal(t, "two-sum", req.Slug)
	assert.Equal(t, 3000, req.TimeLimitMs)
	assert.Equal(t, 256, req.MemoryLimitMB)
	assert.Equal(t, "exact", req.CheckerType)
	assert.Equal(t, []judgeapi.Example{{Input: "1 2", Output: "3", Explanation: "1+2"}}, req.Examples)
	assert.Equal(t, []judgeapi.TestCase{
		{Input: "1 2", Output: "3", IsSample: true},
		{Input: "5 5", Output: "10", IsSample: false},
	}, req.TestCases)
}

func TestCreateRefusesInvalidDraftLocally(t *testing.T) {
	api := &problemAPIMock{}
	svc := problems.New(api, staticToken("tok"))

	_, err := svc.Create(context.Background(), problems.Draft{Title: "Only title"})
	require.ErrorIs(t, err, problems.ErrInvalidDraft)
}

func TestCreateFillsDefaults(t *testing.T) {
	var sent judgeapi.ProblemCreate
	api := &problemAPIMock{
		create: func(ctx context.Context, token string, in judgeapi.ProblemCreate) (*judgeapi.ProblemDetail, error) {
			assert.Equal(t, "tok", token)
			sent = in
			return &judgeapi.ProblemDetail{ProblemSummary: judgeapi.ProblemSummary{ID: "p9", Slug: in.Slug}}, nil
		},
	}
	svc := problems.New(api, staticToken("tok"))

	created, err := svc.Create(context.Background(), problems.Draft{
		Title:       "Reverse String",
		Description: "Reverse it.",
		Examples:    []problems.Example{{Input: "ab", Output: "ba"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
	assert.Equal(t, "reverse-string", sent.Slug)
	assert.Equal(t, 2000, sent.TimeLimitMs)
	assert.Equal(t, "medium", sent.Difficulty)
}

func TestAnonymousCallsFailWithoutRequest(t *testing.T) {
	svc := problems.New(&problemAPIMock{}, staticToken(""))

	_, err := svc.List(context.Background())
	assert.Equal(t, apierror.KindAuth, apierror.KindOf(err))

	_, err = svc.Get(context.Background(), "p1")
	assert.Equal(t, apierror.KindAuth, apierror.KindOf(err))

	_, err = svc.Create(context.Background(), validDraft())
	assert.Equal(t, apierror.KindAuth, apierror.KindOf(err))
}

func TestListAndGetPassToken(t *testing.T) {
	api := &problemAPIMock{
		list: func(ctx context.Context, token string) ([]judgeapi.ProblemSummary, error) {
			assert.Equal(t, "tok", token)
			return []judgeapi.ProblemSummary{{ID: "p1", Slug: "two-sum"}}, nil
		},
		get: func(ctx context.Context, token string, id string) (*judgeapi.ProblemDetail, error) {
			assert.Equal(t, "tok", token)
			return &judgeapi.ProblemDetail{ProblemSummary: judgeapi.ProblemSummary{ID: id}}, nil
		},
	}
	svc := problems.New(api, staticToken("tok"))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	detail, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.ID)
}

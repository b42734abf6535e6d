package submctl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/planglist"
	"github.com/programme-lv/ojclient/submctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type submitAPIMock struct {
	submit func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error)

	mu   sync.Mutex
	reqs []judgeapi.SubmissionRequest
}

func (m *submitAPIMock) Submit(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, in)
	m.mu.Unlock()
	return m.submit(ctx, token, in)
}

func (m *submitAPIMock) Requests() []judgeapi.SubmissionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]judgeapi.SubmissionRequest(nil), m.reqs...)
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

func accepted(id string) *judgeapi.Verdict {
	return &judgeapi.Verdict{SubmissionID: id, Status: judgeapi.StatusAccepted, Message: "Verdict: ACCEPTED"}
}

func TestNewSeedsDefaultTemplate(t *testing.T) {
	c := submctl.New(&submitAPIMock{}, staticToken("tok"))
	assert.Equal(t, planglist.Python, c.Language())
	assert.Contains(t, c.Code(), "def solve():")
	assert.Equal(t, submctl.ViewDescription, c.View())
	assert.True(t, c.CanSubmit())
}

func TestSetLanguageDiscardsBuffer(t *testing.T) {
	c := submctl.New(&submitAPIMock{}, staticToken("tok"))
	c.SetProblem(submctl.Problem{ID: "p1", Slug: "two-sum", Title: "Two Sum"})
	assert.Contains(t, c.Code(), "def two_sum():")

	c.SetCode("def two_sum():\n    return 42\n")
	require.NoError(t, c.SetLanguage("java"))

	code := c.Code()
	assert.Equal(t, planglist.Java, c.Language())
	assert.Contains(t, code, "public class Solution")
	assert.Contains(t, code, "public static void twoSum()")
	assert.NotContains(t, code, "return 42")

	require.NoError(t, c.SetLanguage("python"))
	assert.NotContains(t, c.Code(), "return 42", "buffers are not cached per language")
}

func TestSetLanguageIsDeterministic(t *testing.T) {
	a := submctl.New(&submitAPIMock{}, staticToken("tok"))
	b := submctl.New(&submitAPIMock{}, staticToken("tok"))
	for _, c := range []*submctl.Controller{a, b} {
		c.SetProblem(submctl.Problem{ID: "p1", Slug: "two-sum"})
		require.NoError(t, c.SetLanguage("cpp"))
	}
	assert.Equal(t, a.Code(), b.Code())
	assert.Contains(t, a.Code(), "void two_sum()")
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	c := submctl.New(&submitAPIMock{}, staticToken("tok"))
	c.SetCode("kept")

	err := c.SetLanguage("brainfuck")
	require.ErrorIs(t, err, planglist.ErrInvalidProgLang)
	assert.Equal(t, "kept", c.Code())
	assert.Equal(t, planglist.Python, c.Language())
}

func TestSubmitSuccess(t *testing.T) {
	api := &submitAPIMock{
		submit: func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
			assert.Equal(t, "tok", token)
			return accepted("s1"), nil
		},
	}
	c := submctl.New(api, staticToken("tok"))
	c.SetProblem(submctl.Problem{ID: "p1", Slug: "two-sum"})
	require.NoError(t, c.SetLanguage("javascript"))
	c.SetCode("function twoSum() { return 1 }")

	v, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", v.SubmissionID)

	assert.Equal(t, []judgeapi.SubmissionRequest{{
		ProblemID: "p1",
		Language:  "javascript",
		Code:      "function twoSum() { return 1 }",
	}}, api.Requests())

	res := c.Result()
	require.NotNil(t, res.Verdict)
	assert.True(t, res.Verdict.IsAccepted())
	assert.Empty(t, res.Error)
	assert.Equal(t, submctl.ViewSubmissions, c.View())
	assert.False(t, c.IsLoading())
}

func TestSubmitFailureStillSwitchesView(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		msg  string
	}{
		{"scalar detail", &apierror.AuthError{Status: 422, Detail: "Code too short"}, "Code too short"},
		{
			"field errors",
			&apierror.ValidationError{Status: 422, Fields: []apierror.FieldError{{Field: "language", Msg: "unsupported"}}},
			"language: unsupported",
		},
		{"network", &apierror.NetworkError{Cause: errors.New("refused")}, "submission failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &submitAPIMock{
				submit: func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
					return nil, tc.err
				},
			}
			c := submctl.New(api, staticToken("tok"))

			_, err := c.Submit(context.Background())
			require.ErrorIs(t, err, tc.err)

			res := c.Result()
			assert.Nil(t, res.Verdict)
			assert.Equal(t, tc.msg, res.Error)
			assert.Equal(t, submctl.ViewSubmissions, c.View())
			assert.False(t, c.IsLoading())
		})
	}
}

func TestSubmitWithoutTokenSendsNothing(t *testing.T) {
	api := &submitAPIMock{}
	c := submctl.New(api, staticToken(""))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindAuth, apierror.KindOf(err))
	assert.Empty(t, api.Requests())
	assert.Equal(t, "you are not logged in", c.Result().Error)
	assert.Equal(t, submctl.ViewSubmissions, c.View())
}

func TestSubmitClearsPreviousResult(t *testing.T) {
	fail := true
	started := make(chan struct{})
	release := make(chan struct{})
	api := &submitAPIMock{
		submit: func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
			if fail {
				return nil, &apierror.AuthError{Status: 400, Detail: "bad"}
			}
			close(started)
			<-release
			return accepted("s2"), nil
		},
	}
	c := submctl.New(api, staticToken("tok"))
	_, _ = c.Submit(context.Background())
	require.Equal(t, "bad", c.Result().Error)

	fail = false
	var g errgroup.Group
	g.Go(func() error {
		_, err := c.Submit(context.Background())
		return err
	})

	<-started
	assert.Equal(t, submctl.Result{}, c.Result(), "stale outcome is cleared before the request")
	assert.True(t, c.IsLoading())
	assert.False(t, c.CanSubmit())
	close(release)

	require.NoError(t, g.Wait())
	assert.Equal(t, "s2", c.Result().Verdict.SubmissionID)
}

// overlappingSubmits issues two submissions, the first held until the second
// has settled, and returns the controller afterwards.
func overlappingSubmits(t *testing.T, opts ...submctl.Option) *submctl.Controller {
	t.Helper()

	started := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	release := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	api := &submitAPIMock{
		submit: func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
			close(started[in.Code])
			<-release[in.Code]
			if in.Code == "first" {
				return accepted("s-first"), nil
			}
			return nil, &apierror.AuthError{Status: 422, Detail: "second failed"}
		},
	}
	c := submctl.New(api, staticToken("tok"), opts...)

	var g errgroup.Group
	c.SetCode("first")
	g.Go(func() error {
		_, _ = c.Submit(context.Background())
		return nil
	})
	<-started["first"]

	c.SetCode("second")
	secondDone := make(chan struct{})
	g.Go(func() error {
		defer close(secondDone)
		_, _ = c.Submit(context.Background())
		return nil
	})
	<-started["second"]

	close(release["second"])
	<-secondDone
	close(release["first"])

	require.NoError(t, g.Wait())
	return c
}

func TestOverlappingSubmitsLastSettledWins(t *testing.T) {
	c := overlappingSubmits(t)

	res := c.Result()
	require.NotNil(t, res.Verdict, "the first request settled last and overwrote the second")
	assert.Equal(t, "s-first", res.Verdict.SubmissionID)
	assert.Empty(t, res.Error)
	assert.False(t, c.IsLoading())
}

func TestOverlappingSubmitsLatestOnly(t *testing.T) {
	c := overlappingSubmits(t, submctl.WithLatestOnly())

	res := c.Result()
	assert.Nil(t, res.Verdict, "a response to a superseded request is dropped")
	assert.Equal(t, "second failed", res.Error)
}

func TestSetProblemResetsPage(t *testing.T) {
	api := &submitAPIMock{
		submit: func(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error) {
			return accepted("s1"), nil
		},
	}
	c := submctl.New(api, staticToken("tok"))
	require.NoError(t, c.SetLanguage("java"))
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.SetProblem(submctl.Problem{ID: "p2", Slug: "reverse-string"})
	assert.Equal(t, submctl.ViewDescription, c.View())
	assert.Equal(t, submctl.Result{}, c.Result())
	assert.Equal(t, planglist.Java, c.Language(), "language survives a problem change")
	assert.Contains(t, c.Code(), "reverseString()")
}

func TestVerdictStyle(t *testing.T) {
	ok := submctl.VerdictStyle("ACCEPTED").GetForeground()
	assert.True(t, submctl.IsAccepted("ACCEPTED"))

	statuses := []string{
		"WRONG_ANSWER", "COMPILE_ERROR", "TIME_LIMIT_EXCEEDED", "RUNTIME_ERROR",
		"MEMORY_LIMIT_EXCEEDED", "accepted", " ACCEPTED", "PENDING", "",
	}
	for _, s := range statuses {
		assert.False(t, submctl.IsAccepted(s), s)
		assert.NotEqual(t, ok, submctl.VerdictStyle(s).GetForeground(), s)
		assert.Equal(t, lipgloss.Color("#EF4444"), submctl.VerdictStyle(s).GetForeground(), s)
	}
	assert.Equal(t, lipgloss.Color("#22C55E"), ok)
	assert.NotEmpty(t, strings.TrimSpace(submctl.VerdictStyle("ACCEPTED").Render("ACCEPTED")))
}

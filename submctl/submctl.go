// Package submctl drives the editor buffer and the submit-and-display cycle
// of a single problem page.
package submctl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/codetmpl"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/logger"
	"github.com/programme-lv/ojclient/planglist"
)

const (
	DefaultLanguage = planglist.Python

	submitFallbackMsg = "submission failed"
)

type SubmitAPI interface {
	Submit(ctx context.Context, token string, in judgeapi.SubmissionRequest) (*judgeapi.Verdict, error)
}

// TokenSource hands out the current bearer token. *session.Manager is one.
type TokenSource interface {
	Token() string
}

type Problem struct {
	ID    string
	Slug  string
	Title string
}

type View int

const (
	ViewDescription View = iota
	ViewSubmissions
)

func (v View) String() string {
	if v == ViewSubmissions {
		return "submissions"
	}
	return "description"
}

// Result is the outcome of the latest settled submission. At most one of
// Verdict and Error is set.
type Result struct {
	Verdict *judgeapi.Verdict
	Error   string
}

type Controller struct {
	api    SubmitAPI
	tokens TokenSource
	logger *slog.Logger

	latestOnly bool

	mu        sync.Mutex
	problem   Problem
	lang      planglist.ID
	code      string
	view      View
	isLoading bool
	verdict   *judgeapi.Verdict
	errMsg    string
	seq       uint64
}

type Option func(*Controller)

// WithLatestOnly makes Submit apply only the response of the most recently
// issued request. Without it the last response to settle wins.
func WithLatestOnly() Option {
	return func(c *Controller) {
		c.latestOnly = true
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func New(api SubmitAPI, tokens TokenSource, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		tokens: tokens,
		lang:   DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.code = mustGenerate(c.lang, "")
	return c
}

func (c *Controller) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logger.FromContext(ctx)
}

// SetProblem switches to another problem and reseeds the buffer for the
// current language.
func (c *Controller) SetProblem(p Problem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problem = p
	c.code = mustGenerate(c.lang, p.Slug)
	c.view = ViewDescription
	c.verdict = nil
	c.errMsg = ""
}

// SetLanguage regenerates the buffer from the template. Whatever was typed
// in the previous language is discarded.
func (c *Controller) SetLanguage(id string) error {
	lang, err := planglist.Get(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang.ID
	c.code = mustGenerate(lang.ID, c.problem.Slug)
	return nil
}

func (c *Controller) SetCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code = code
}

func (c *Controller) SetView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

func (c *Controller) Problem() Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.problem
}

func (c *Controller) Language() planglist.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Controller) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// CanSubmit is false while a submission is in flight. Submit does not check
// it; the submit control should.
func (c *Controller) CanSubmit() bool {
	return !c.IsLoading()
}

func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Result{Verdict: c.verdict, Error: c.errMsg}
}

// Submit sends the buffer and waits for the verdict. Either way the view
// switches to the submissions panel. The classified error is returned after
// its rendered message has been stored.
func (c *Controller) Submit(ctx context.Context) (*judgeapi.Verdict, error) {
	c.mu.Lock()
	c.isLoading = true
	c.verdict = nil
	c.errMsg = ""
	c.seq++
	seq := c.seq
	req := judgeapi.SubmissionRequest{
		ProblemID: c.problem.ID,
		Language:  string(c.lang),
		Code:      c.code,
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isLoading = false
		c.mu.Unlock()
	}()

	token := c.tokens.Token()
	if token == "" {
		err := apierror.NewNotLoggedIn()
		c.settle(seq, nil, err)
		return nil, err
	}

	verdict, err := c.api.Submit(ctx, token, req)
	if err != nil {
		c.log(ctx).Warn(submitFallbackMsg,
			"problem_id", req.ProblemID,
			"language", req.Language,
			"kind", apierror.KindOf(err).String(),
			"error", err,
		)
		c.settle(seq, nil, err)
		return nil, err
	}

	c.log(ctx).Info("submission judged",
		"problem_id", req.ProblemID,
		"language", req.Language,
		"submission_id", verdict.SubmissionID,
		"status", verdict.Status,
		"execution_time_ms", verdict.ExecutionTimeMs,
	)
	c.settle(seq, verdict, nil)
	return verdict, nil
}

func (c *Controller) settle(seq uint64, verdict *judgeapi.Verdict, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latestOnly && seq != c.seq {
		return
	}
	c.verdict = verdict
	c.errMsg = ""
	if err != nil {
		c.errMsg = apierror.Render(err, submitFallbackMsg)
	}
	c.view = ViewSubmissions
}

// mustGenerate only sees ids that came out of planglist.
func mustGenerate(lang planglist.ID, slug string) string {
	code, err := codetmpl.Generate(lang, slug)
	if err != nil {
		panic(err)
	}
	return code
}

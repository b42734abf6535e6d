// Package session owns the authentication token and the current user's
// profile. One Manager is created at startup and shared by reference.
//
// Operations are not mutually exclusive. The mutex only guards individual
// field reads and writes and is never held across a network call, so
// overlapping operations interleave and the last write wins. Front ends are
// expected to disable the triggering control while IsLoading is true.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/logger"
	"github.com/programme-lv/ojclient/tokenstore"
)

const (
	DefaultLogoutTimeout = 5 * time.Second

	loginFallbackMsg    = "login failed"
	registerFallbackMsg = "registration failed"
)

// AuthAPI is the part of the judge backend the session talks to.
type AuthAPI interface {
	Register(ctx context.Context, in judgeapi.RegisterRequest) (*judgeapi.Profile, error)
	Login(ctx context.Context, in judgeapi.LoginRequest) (*judgeapi.TokenResponse, error)
	Me(ctx context.Context, token string) (*judgeapi.Profile, error)
	Logout(ctx context.Context, token string) error
}

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a read-only copy of the manager's fields.
type Session struct {
	Token     string
	User      *judgeapi.Profile
	IsLoading bool
	LastError string
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     judgeapi.Role
}

type Manager struct {
	api   AuthAPI
	store tokenstore.Store
	nav   Navigator

	logoutTimeout time.Duration
	tokenTTL      time.Duration
	now           func() time.Time
	logger        *slog.Logger

	initOnce sync.Once

	mu        sync.Mutex
	token     string
	user      *judgeapi.Profile
	isLoading bool
	lastError string
}

type Option func(*Manager)

func WithNavigator(nav Navigator) Option {
	return func(m *Manager) {
		m.nav = nav
	}
}

// WithLogoutTimeout bounds the advisory remote logout call.
func WithLogoutTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.logoutTimeout = d
	}
}

// WithTokenTTL sets how long a persisted token stays valid locally.
func WithTokenTTL(d time.Duration) Option {
	return func(m *Manager) {
		m.tokenTTL = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

func New(api AuthAPI, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:           api,
		store:         store,
		nav:           NopNavigator(),
		logoutTimeout: DefaultLogoutTimeout,
		tokenTTL:      tokenstore.DefaultTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) log(ctx context.Context) *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return logger.FromContext(ctx)
}

// Init restores a persisted token and loads its profile. Only the first
// call does anything.
func (m *Manager) Init(ctx context.Context) {
	m.initOnce.Do(func() {
		token, err := m.store.Load()
		if err != nil {
			m.log(ctx).Warn("failed to read persisted token", "error", err)
			return
		}
		if token == "" {
			return
		}
		m.setToken(token)
		m.LoadUser(ctx)
	})
}

// Login authenticates with email and password. The email is trimmed and
// lower-cased, the password is sent as typed. On failure LastError holds the
// rendered message and the classified error is returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.beginLoading()
	defer m.endLoading()

	err := m.login(ctx, email, password)
	if err != nil {
		m.fail(ctx, err, loginFallbackMsg)
		return err
	}
	return nil
}

func (m *Manager) login(ctx context.Context, email, password string) error {
	res, err := m.api.Login(ctx, judgeapi.LoginRequest{
		Email:    normalizeLower(email),
		Password: password,
	})
	if err != nil {
		return err
	}

	m.setToken(res.AccessToken)
	if err := m.store.Save(res.AccessToken, m.now().Add(m.tokenTTL)); err != nil {
		m.log(ctx).Warn("failed to persist token", "error", err)
	}

	m.LoadUser(ctx)

	// a forced logout inside LoadUser already routed to the landing page
	if m.IsLoggedIn() {
		m.nav.Navigate(RouteProblems)
	}
	return nil
}

// Register creates the account and then logs in with the same credentials.
// Registration alone does not establish a session.
func (m *Manager) Register(ctx context.Context, in RegisterInput) error {
	m.beginLoading()
	defer m.endLoading()

	_, err := m.api.Register(ctx, judgeapi.RegisterRequest{
		Username: normalizeLower(in.Username),
		Email:    normalizeLower(in.Email),
		FullName: strings.TrimSpace(in.FullName),
		Password: in.Password,
		Role:     in.Role,
	})
	if err == nil {
		err = m.login(ctx, in.Email, in.Password)
	}
	if err != nil {
		m.fail(ctx, err, registerFallbackMsg)
		return err
	}
	return nil
}

// LoadUser fetches the profile for the active token. Any failure means the
// token is no good and ends in a forced logout; it is not reported as an error.
func (m *Manager) LoadUser(ctx context.Context) {
	token := m.Token()
	if token == "" {
		return
	}

	prof, err := m.api.Me(ctx, token)
	if err != nil {
		m.log(ctx).Warn("failed to load user, logging out", "error", err)
		m.Logout(ctx)
		return
	}

	m.mu.Lock()
	// drop the profile if the token changed while it was being fetched
	if m.token == token {
		m.user = prof
	}
	m.mu.Unlock()
}

// Logout clears the session. Remote invalidation is advisory: its failure is
// logged and ignored, and local cleanup always runs.
func (m *Manager) Logout(ctx context.Context) {
	token := m.Token()

	defer func() {
		m.mu.Lock()
		m.token = ""
		m.user = nil
		m.mu.Unlock()

		if err := m.store.Clear(); err != nil {
			m.log(ctx).Warn("failed to clear persisted token", "error", err)
		}
		m.nav.Navigate(RouteLanding)
	}()

	if token == "" {
		return
	}

	remoteCtx := ctx
	if m.logoutTimeout > 0 {
		var cancel context.CancelFunc
		remoteCtx, cancel = context.WithTimeout(ctx, m.logoutTimeout)
		defer cancel()
	}
	if err := m.api.Logout(remoteCtx, token); err != nil {
		m.log(ctx).Warn("server did not confirm logout, clearing locally", "error", err)
		return
	}
	m.log(ctx).Debug("server confirmed logout")
}

func (m *Manager) fail(ctx context.Context, err error, fallback string) {
	msg := apierror.Render(err, fallback)
	m.log(ctx).Warn(fallback, "error", msg, "kind", apierror.KindOf(err).String())

	m.mu.Lock()
	m.lastError = msg
	m.mu.Unlock()
}

func (m *Manager) beginLoading() {
	m.mu.Lock()
	m.isLoading = true
	m.lastError = ""
	m.mu.Unlock()
}

func (m *Manager) endLoading() {
	m.mu.Lock()
	m.isLoading = false
	m.mu.Unlock()
}

func (m *Manager) setToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Token returns the active bearer token, "" when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current profile, nil when not loaded.
func (m *Manager) User() *judgeapi.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{
		Token:     m.token,
		IsLoading: m.isLoading,
		LastError: m.lastError,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

func (m *Manager) IsStudent() bool {
	return m.User().IsStudent()
}

func (m *Manager) IsTeacher() bool {
	return m.User().IsTeacher()
}

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isLoading
}

func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Manager) State() State {
	s := m.Snapshot()
	switch {
	case s.Token != "" && s.User != nil && !s.IsLoading:
		return Authenticated
	case s.IsLoading || s.Token != "":
		return Authenticating
	default:
		return Anonymous
	}
}

func normalizeLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

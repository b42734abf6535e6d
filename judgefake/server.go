// Package judgefake is an in-memory stand-in for the judge backend. It speaks
// the same REST contract and error bodies, so clients can be exercised
// end to end without the real service.
package judgefake

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/programme-lv/ojclient/judgeapi"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Call is one request the server received.
type Call struct {
	Method string
	Path   string
}

type user struct {
	profile judgeapi.Profile
	bcrypt  []byte
}

type problem struct {
	detail   judgeapi.ProblemDetail
	tests    []judgeapi.TestCase
	authorID string
}

type Server struct {
	jwtKey     []byte
	judge      Judge
	bcryptCost int
	logLevel   slog.Level
	origins    []string

	handler http.Handler

	mu       sync.Mutex
	users    map[string]*user // by id
	problems []*problem
	verdicts []judgeapi.Verdict
	revoked  map[string]struct{} // by jti
	calls    []Call
}

type Option func(*Server)

func WithJudge(j Judge) Option {
	return func(s *Server) {
		s.judge = j
	}
}

func WithJwtKey(key []byte) Option {
	return func(s *Server) {
		s.jwtKey = key
	}
}

// WithBcryptCost lowers hashing cost, mostly for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		s.bcryptCost = cost
	}
}

func WithLogLevel(level slog.Level) Option {
	return func(s *Server) {
		s.logLevel = level
	}
}

func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		jwtKey:     []byte(uuid.NewString()),
		judge:      DefaultJudge,
		bcryptCost: bcrypt.DefaultCost,
		logLevel:   slog.LevelInfo,
		origins:    []string{"http://localhost:3000", "http://localhost:5173"},
		users:      map[string]*user{},
		revoked:    map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.seedProblems()
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	logger := httplog.NewLogger("judgefake", httplog.Options{
		LogLevel:         s.logLevel,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": "fake",
		},
	})
	router.Use(httplog.RequestLogger(logger))
	router.Use(s.recordCalls)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           3000,
	})
	router.Use(corsMiddleware.Handler)

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.authRegister)
		r.Post("/auth/login", s.authLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.jwtAuth)

			r.Get("/auth/me", s.authMe)
			r.Post("/auth/logout", s.authLogout)

			r.Get("/student/problems", s.listProblems)
			r.Get("/student/problems/{id}", s.getProblem)
			r.Post("/student/submissions", s.createSubmission)

			r.Post("/teacher/problems", s.createProblem)
		})
	})

	return gzhttp.GzipHandler(router)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return http.ListenAndServe(address, s)
}

func (s *Server) recordCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Calls returns every request received so far, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Verdicts returns every verdict handed out so far.
func (s *Server) Verdicts() []judgeapi.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]judgeapi.Verdict(nil), s.verdicts...)
}

package judgefake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/httpjson"
	"github.com/programme-lv/ojclient/judgeapi"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	startRating    = 1200
)

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return &apierror.ValidationError{
			Status: http.StatusUnprocessableEntity,
			Fields: []apierror.FieldError{{Field: "body", Msg: "JSON decode error"}},
		}
	}
	return nil
}

func validateRegistration(in judgeapi.RegisterRequest) error {
	var fields []apierror.FieldError
	if !strings.Contains(in.Email, "@") {
		fields = append(fields, apierror.FieldError{Field: "email", Msg: "value is not a valid email address"})
	}
	if len([]rune(in.Username)) < minUsernameLen {
		fields = append(fields, apierror.FieldError{
			Field: "username",
			Msg:   fmt.Sprintf("String should have at least %d characters", minUsernameLen),
		})
	}
	if len([]rune(in.Password)) < minPasswordLen {
		fields = append(fields, apierror.FieldError{
			Field: "password",
			Msg:   fmt.Sprintf("String should have at least %d characters", minPasswordLen),
		})
	}
	if in.Role != "" && !in.Role.Valid() {
		fields = append(fields, apierror.FieldError{Field: "role", Msg: "Input should be 'student' or 'teacher'"})
	}
	if len(fields) > 0 {
		return &apierror.ValidationError{Status: http.StatusUnprocessableEntity, Fields: fields}
	}
	return nil
}

// AddUser creates an account directly, bypassing the HTTP layer.
func (s *Server) AddUser(in judgeapi.RegisterRequest) (judgeapi.Profile, error) {
	if err := validateRegistration(in); err != nil {
		return judgeapi.Profile{}, err
	}
	if in.Role == "" {
		in.Role = judgeapi.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return judgeapi.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.profile.Email == in.Email {
			return judgeapi.Profile{}, &apierror.AuthError{Status: http.StatusBadRequest, Detail: "Email already registered"}
		}
		if u.profile.Username == in.Username {
			return judgeapi.Profile{}, &apierror.AuthError{Status: http.StatusBadRequest, Detail: "Username already taken"}
		}
	}

	u := &user{
		profile: judgeapi.Profile{
			ID:       uuid.NewString(),
			Username: in.Username,
			Email:    in.Email,
			FullName: in.FullName,
			Role:     in.Role,
			Rating:   startRating,
		},
		bcrypt: hash,
	}
	s.users[u.profile.ID] = u
	return u.profile, nil
}

func (s *Server) authRegister(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var in judgeapi.RegisterRequest
	if err := decodeBody(r, &in); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	prof, err := s.AddUser(in)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	logger.Info("user registered", "username", prof.Username, "role", prof.Role)
	httpjson.WriteJson(w, http.StatusCreated, prof)
}

func (s *Server) authLogin(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var in judgeapi.LoginRequest
	if err := decodeBody(r, &in); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if u.profile.Email == in.Email {
			found = u
			break
		}
	}
	s.mu.Unlock()

	incorrect := &apierror.AuthError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	if found == nil {
		httpjson.HandleError(logger, w, incorrect)
		return
	}
	if err := bcrypt.CompareHashAndPassword(found.bcrypt, []byte(in.Password)); err != nil {
		httpjson.HandleError(logger, w, incorrect)
		return
	}

	token, err := s.issueJWT(found)
	if err != nil {
		httpjson.HandleError(logger, w, fmt.Errorf("failed to generate JWT: %w", err))
		return
	}

	logger.Info("user logged in", "username", found.profile.Username)
	httpjson.WriteJson(w, http.StatusOK, judgeapi.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) authMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	s.mu.Lock()
	prof := s.users[claims.Subject].profile
	s.mu.Unlock()

	httpjson.WriteJson(w, http.StatusOK, prof)
}

func (s *Server) authLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	s.mu.Lock()
	s.revoked[claims.ID] = struct{}{}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

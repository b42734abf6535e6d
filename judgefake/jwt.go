package judgefake

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"
	"github.com/google/uuid"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/httpjson"
)

type jwtClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type ctxKey string

const ctxClaimsKey ctxKey = "jwtClaims"

var errBadCredentials = &apierror.AuthError{
	Status: http.StatusUnauthorized,
	Detail: "Could not validate credentials",
}

func (s *Server) issueJWT(u *user) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		Role: string(u.profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.profile.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

func (s *Server) validateJWT(tokenStr string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// jwtAuth rejects requests without a live bearer token and puts the claims
// in the request context.
func (s *Server) jwtAuth(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			if errors.Is(err, request.ErrNoTokenInRequest) {
				httpjson.HandleError(logger, w, &apierror.AuthError{
					Status: http.StatusUnauthorized,
					Detail: "Not authenticated",
				})
				return
			}
			httpjson.HandleError(logger, w, errBadCredentials)
			return
		}

		claims, err := s.validateJWT(token)
		if err != nil {
			logger.Debug("token rejected", "error", err)
			httpjson.HandleError(logger, w, errBadCredentials)
			return
		}

		s.mu.Lock()
		_, revoked := s.revoked[claims.ID]
		_, known := s.users[claims.Subject]
		s.mu.Unlock()
		if revoked || !known {
			httpjson.HandleError(logger, w, errBadCredentials)
			return
		}

		ctx := context.WithValue(r.Context(), ctxClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

func claimsFromContext(ctx context.Context) *jwtClaims {
	claims, _ := ctx.Value(ctxClaimsKey).(*jwtClaims)
	return claims
}

package judgeapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/programme-lv/ojclient/apierror"
)

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Profile, error) {
	var res Profile
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*TokenResponse, error) {
	var res TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, &apierror.NetworkError{Status: http.StatusOK, Cause: errors.New("login response without access_token")}
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var res Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout asks the backend to invalidate token. Callers treat failure as advisory.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

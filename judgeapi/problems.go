package judgeapi

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListProblems(ctx context.Context, token string) ([]ProblemSummary, error) {
	res := []ProblemSummary{}
	if err := c.do(ctx, http.MethodGet, "/student/problems", token, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetProblem(ctx context.Context, token string, id string) (*ProblemDetail, error) {
	var res ProblemDetail
	if err := c.do(ctx, http.MethodGet, "/student/problems/"+url.PathEscape(id), token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateProblem(ctx context.Context, token string, in ProblemCreate) (*ProblemDetail, error) {
	var res ProblemDetail
	if err := c.do(ctx, http.MethodPost, "/teacher/problems", token, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

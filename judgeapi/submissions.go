package judgeapi

import (
	"context"
	"net/http"
)

// Submit sends a solution and waits for the verdict. The backend judges
// the code before it responds.
func (c *Client) Submit(ctx context.Context, token string, in SubmissionRequest) (*Verdict, error) {
	var res Verdict
	if err := c.do(ctx, http.MethodPost, "/student/submissions", token, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

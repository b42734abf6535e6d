package judgeapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, r http.Handler) *judgeapi.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return judgeapi.NewClient(srv.URL + "/api/")
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestLoginSendsJsonAndDecodesToken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Empty(t, req.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "a@b.c", "password": " p "}, body)

		writeRaw(w, http.StatusOK, `{"access_token":"tok","token_type":"bearer"}`)
	})

	client := newTestClient(t, r)
	res, err := client.Login(context.Background(), judgeapi.LoginRequest{Email: "a@b.c", Password: " p "})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
}

func TestLoginWithoutTokenIsNetworkError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		writeRaw(w, http.StatusOK, `{"token_type":"bearer"}`)
	})

	_, err := newTestClient(t, r).Login(context.Background(), judgeapi.LoginRequest{})
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
}

func TestAuthenticatedRequestsCarryBearer(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
		writeRaw(w, http.StatusOK, `{"id":"u1","username":"ann","email":"ann@x.lv","full_name":null,"role":"teacher","rating":1200}`)
	})
	r.Get("/api/student/problems/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
		assert.Equal(t, "p 1", chi.URLParam(req, "id"))
		writeRaw(w, http.StatusOK, `{"id":"p 1","title":"Two Sum","slug":"two-sum","difficulty":"easy","is_public":true,"description":"add","examples":[{"input_data":"1 2","output_data":"3"}]}`)
	})

	client := newTestClient(t, r)

	prof, err := client.Me(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "ann", prof.Username)
	assert.Empty(t, prof.FullName)
	assert.True(t, prof.IsTeacher())
	assert.False(t, prof.IsStudent())

	prob, err := client.GetProblem(context.Background(), "tok-1", "p 1")
	require.NoError(t, err)
	assert.Equal(t, "two-sum", prob.Slug)
	require.Len(t, prob.Examples, 1)
	assert.Equal(t, "3", prob.Examples[0].Output)
}

func TestLogoutAcceptsEmptyBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, newTestClient(t, r).Logout(context.Background(), "tok"))
}

func TestErrorClassification(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		kind     apierror.Kind
		rendered string
	}{
		{
			name:     "422 field array",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"loc":["body"],"msg":"missing"}]}`,
			kind:     apierror.KindValidation,
			rendered: "email: value is not a valid email address; field: missing",
		},
		{
			name:     "422 scalar detail",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":"Code too short"}`,
			kind:     apierror.KindAuth,
			rendered: "Code too short",
		},
		{
			name:     "401 detail",
			status:   http.StatusUnauthorized,
			body:     `{"detail":"Incorrect email or password"}`,
			kind:     apierror.KindAuth,
			rendered: "Incorrect email or password",
		},
		{
			name:     "message field",
			status:   http.StatusBadRequest,
			body:     `{"message":"bad request"}`,
			kind:     apierror.KindAuth,
			rendered: "bad request",
		},
		{
			name:     "html body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			kind:     apierror.KindNetwork,
			rendered: "fallback",
		},
		{
			name:     "json without detail",
			status:   http.StatusInternalServerError,
			body:     `{}`,
			kind:     apierror.KindNetwork,
			rendered: "fallback",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/api/student/submissions", func(w http.ResponseWriter, req *http.Request) {
				writeRaw(w, tc.status, tc.body)
			})

			_, err := newTestClient(t, r).Submit(context.Background(), "tok", judgeapi.SubmissionRequest{})
			require.Error(t, err)
			assert.Equal(t, tc.kind, apierror.KindOf(err))
			assert.Equal(t, tc.rendered, apierror.Render(err, "fallback"))

			var apiErr apierror.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.HttpStatusCode())
		})
	}
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := judgeapi.NewClient(url).ListProblems(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
	assert.Equal(t, "submission failed", apierror.Render(err, "submission failed"))
}

func TestSubmitDecodesVerdict(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/student/submissions", func(w http.ResponseWriter, req *http.Request) {
		var body judgeapi.SubmissionRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, judgeapi.SubmissionRequest{ProblemID: "p1", Language: "python", Code: "print(1)"}, body)
		writeRaw(w, http.StatusAccepted, `{"submission_id":"s1","status":"WRONG_ANSWER","message":"Verdict: WRONG_ANSWER","final_status":"WRONG_ANSWER","execution_time":12.5,"memory_used":2048,"created_at":"2025-03-01T10:00:00.123456"}`)
	})

	v, err := newTestClient(t, r).Submit(context.Background(), "tok", judgeapi.SubmissionRequest{ProblemID: "p1", Language: "python", Code: "print(1)"})
	require.NoError(t, err)
	assert.Equal(t, "s1", v.SubmissionID)
	assert.Equal(t, 12.5, v.ExecutionTimeMs)
	assert.Equal(t, "2025-03-01T10:00:00.123456", v.CreatedAt)
	assert.False(t, v.IsAccepted())
}

func TestIsAccepted(t *testing.T) {
	assert.True(t, judgeapi.IsAccepted("ACCEPTED"))
	for _, s := range []string{"accepted", "ACCEPTED ", "WRONG_ANSWER", "COMPILE_ERROR", "TIME_LIMIT_EXCEEDED", ""} {
		assert.False(t, judgeapi.IsAccepted(s), s)
	}
	var nilVerdict *judgeapi.Verdict
	assert.False(t, nilVerdict.IsAccepted())
}

func TestTimeoutDoesNotDependOnOptionOrder(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	shared := &http.Client{}
	clients := map[string]*judgeapi.Client{
		"timeout last":  judgeapi.NewClient(srv.URL+"/api", judgeapi.WithHTTPClient(shared), judgeapi.WithTimeout(30*time.Millisecond)),
		"timeout first": judgeapi.NewClient(srv.URL+"/api", judgeapi.WithTimeout(30*time.Millisecond), judgeapi.WithHTTPClient(&http.Client{})),
	}
	for name, c := range clients {
		t.Run(name, func(t *testing.T) {
			_, err := c.Me(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
		})
	}

	assert.Zero(t, shared.Timeout, "caller's http.Client must not be modified")
}

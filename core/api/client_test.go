package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

type course struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

func newTestClient(t *testing.T, backend *testutil.Backend, token string) (*Client, *testutil.MemTokens, *int32) {
	tokens := testutil.NewMemTokens(token)
	var unauthorized int32
	c, err := New(Options{
		BaseURL:        backend.URL,
		Timeout:        time.Second,
		Tokens:         tokens,
		Logger:         &testutil.Logger{},
		OnUnauthorized: func() { atomic.AddInt32(&unauthorized, 1) },
	})
	require.NoError(t, err)
	return c, tokens, &unauthorized
}

func TestNew(t *testing.T) {
	_, err := New(Options{Tokens: testutil.NewMemTokens(""), Logger: &testutil.Logger{}})
	assert.Error(t, err, "missing base URL")

	_, err = New(Options{BaseURL: "http://localhost", Logger: &testutil.Logger{}})
	assert.Error(t, err, "missing token store")
}

func TestNew_keepsCallerHTTPClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	_, err := New(Options{
		BaseURL:    "http://localhost",
		Timeout:    time.Second,
		HTTPClient: shared,
		Tokens:     testutil.NewMemTokens(""),
		Logger:     &testutil.Logger{},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, shared.Timeout)
}

func TestClient_Do_canceledContext(t *testing.T) {
	backend := testutil.NewBackend(t)
	c, _, _ := newTestClient(t, backend, "tkn")
	backend.Reply(http.MethodGet, "/courses", http.StatusOK, []course{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Get(ctx, "/courses", map[string]string{"page": "0"}, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err), "err = %v", err)
	assert.Equal(t, 0, backend.Count(http.MethodGet, "/courses"))
}

func TestClient_Do(t *testing.T) {
	backend := testutil.NewBackend(t)
	c, _, _ := newTestClient(t, backend, "tkn")

	backend.Reply(http.MethodGet, "/courses/7", http.StatusOK, course{ID: 7, Code: "SIS"})
	backend.Handle(http.MethodPost, "/courses", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteData(w, http.StatusCreated, course{ID: 8, Code: "ADM"})
	})
	backend.Fail(http.MethodDelete, "/courses/9", http.StatusConflict, "course has active enrollments")
	backend.Handle(http.MethodGet, "/courses/10", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"hidden","errorCode":"COURSE_HIDDEN"}`))
	})
	backend.Handle(http.MethodDelete, "/courses/11", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()

	var got course
	require.NoError(t, c.Get(ctx, "/courses/7", nil, &got))
	assert.Equal(t, course{ID: 7, Code: "SIS"}, got)

	require.NoError(t, c.Post(ctx, "/courses", course{Code: "ADM"}, &got))
	assert.Equal(t, int64(8), got.ID)
	var sent course
	backend.Calls(http.MethodPost, "/courses")[0].Decode(t, &sent)
	assert.Equal(t, "ADM", sent.Code)

	err := c.Delete(ctx, "/courses/9")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "course has active enrollments", Message(err))
	assert.NotEmpty(t, apiErr.RequestID)

	err = c.Get(ctx, "/courses/10", nil, &got)
	apiErr, ok = AsError(err)
	require.True(t, ok)
	assert.Equal(t, "COURSE_HIDDEN", apiErr.Code)

	assert.NoError(t, c.Delete(ctx, "/courses/11"))

	for _, call := range backend.Calls("", "/courses/7") {
		assert.Equal(t, "Bearer tkn", call.Auth)
	}
}

func TestClient_Do_serverErrorNotRetried(t *testing.T) {
	backend := testutil.NewBackend(t)
	c, tokens, unauthorized := newTestClient(t, backend, "tkn")
	backend.Fail(http.MethodGet, "/students", http.StatusInternalServerError, "boom")

	err := c.Get(context.Background(), "/students", nil, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, backend.Count(http.MethodGet, "/students"))
	assert.Equal(t, 0, backend.Count(http.MethodPost, RefreshPath))
	assert.Equal(t, "tkn", tokens.Token())
	assert.Equal(t, int32(0), atomic.LoadInt32(unauthorized))
}

func TestClient_Do_refresh(t *testing.T) {
	tests := []struct {
		name string
		// refresh answers POST /auth/refresh-token
		refresh func(w http.ResponseWriter, r *http.Request)
		// retryStatus is what the original endpoint answers after the first 401
		retryStatus      int
		wantErr          bool
		wantTargetCalls  int
		wantToken        string
		wantUnauthorized int32
	}{
		{
			name: "refresh then retry succeeds",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteData(w, http.StatusOK, map[string]string{"token": "fresh"})
			},
			retryStatus:     http.StatusOK,
			wantTargetCalls: 2,
			wantToken:       "fresh",
		},
		{
			name: "second 401 does not loop",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteData(w, http.StatusOK, map[string]string{"token": "fresh"})
			},
			retryStatus:      http.StatusUnauthorized,
			wantErr:          true,
			wantTargetCalls:  2,
			wantUnauthorized: 1,
		},
		{
			name: "refresh rejected",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteError(w, http.StatusUnauthorized, "refresh token expired")
			},
			wantErr:          true,
			wantTargetCalls:  1,
			wantUnauthorized: 1,
		},
		{
			name: "refresh without token",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteData(w, http.StatusOK, map[string]string{})
			},
			wantErr:          true,
			wantTargetCalls:  1,
			wantUnauthorized: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewBackend(t)
			c, tokens, unauthorized := newTestClient(t, backend, "stale")

			var hits int32
			backend.Handle(http.MethodGet, "/grades/subject-enrollment/4", func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&hits, 1) == 1 {
					testutil.WriteError(w, http.StatusUnauthorized, "token expired")
					return
				}
				if tt.retryStatus == http.StatusOK {
					testutil.WriteData(w, http.StatusOK, []int{1, 2})
					return
				}
				testutil.WriteError(w, tt.retryStatus, "still expired")
			})
			backend.Handle(http.MethodPost, RefreshPath, tt.refresh)

			var got []int
			err := c.Get(context.Background(), "/grades/subject-enrollment/4", nil, &got)

			assert.Equal(t, 1, backend.Count(http.MethodPost, RefreshPath), "exactly one refresh")
			assert.Equal(t, tt.wantTargetCalls, backend.Count(http.MethodGet, "/grades/subject-enrollment/4"))
			assert.Equal(t, tt.wantToken, tokens.Token())
			assert.Equal(t, tt.wantUnauthorized, atomic.LoadInt32(unauthorized))
			if tt.wantErr {
				assert.True(t, IsUnauthorized(err), "err = %v", err)
				assert.Equal(t, 1, tokens.Cleared)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, got)
			assert.Equal(t, "Bearer stale", backend.Calls(http.MethodPost, RefreshPath)[0].Auth)
			assert.Equal(t, "Bearer fresh", backend.Calls(http.MethodGet, "/grades/subject-enrollment/4")[1].Auth)
		})
	}
}

func TestClient_Do_authPathsNotRefreshed(t *testing.T) {
	backend := testutil.NewBackend(t)
	c, tokens, unauthorized := newTestClient(t, backend, "")
	backend.Fail(http.MethodPost, "/auth/login", http.StatusUnauthorized, "bad credentials")

	err := c.Post(context.Background(), "/auth/login", map[string]string{"username": "x"}, nil)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "bad credentials", Message(err))
	assert.Equal(t, 0, backend.Count(http.MethodPost, RefreshPath))
	assert.Equal(t, 0, tokens.Cleared)
	assert.Equal(t, int32(0), atomic.LoadInt32(unauthorized))
}

func TestResource(t *testing.T) {
	backend := testutil.NewBackend(t)
	c, _, _ := newTestClient(t, backend, "tkn")
	res := NewResource[course, course](c, "/courses")
	ctx := context.Background()

	backend.Reply(http.MethodGet, "/courses", http.StatusOK, testutil.Page(12, 5, []course{{ID: 1}, {ID: 2}}))
	page, err := res.Query(ctx, core.NewPageRequest(1, 5, core.Ordering{Field: "name", Ascending: true}))
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, "page=1&size=5&sort=name%2Casc", backend.Calls(http.MethodGet, "/courses")[0].Query)

	backend.Reply(http.MethodGet, "/courses/search", http.StatusOK, testutil.Page(0, 5, []course{}))
	_, err = res.Search(ctx, "sis", core.NewPageRequest(0, 5))
	require.NoError(t, err)
	assert.Contains(t, backend.Calls(http.MethodGet, "/courses/search")[0].Query, "term=sis")

	backend.Reply(http.MethodPut, "/courses/3", http.StatusOK, course{ID: 3, Code: "NEW"})
	updated, err := res.Update(ctx, 3, course{Code: "NEW"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", updated.Code)

	backend.Reply(http.MethodGet, "/courses/active", http.StatusOK, []course{{ID: 1}})
	all, err := res.List(ctx, "active")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	backend.Reply(http.MethodDelete, "/courses/3", http.StatusOK, nil)
	require.NoError(t, res.Delete(ctx, 3))
	assert.Equal(t, 1, backend.Count(http.MethodDelete, "/courses/3"))
}

package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ollama-chat/cmd/internal/trace"
)

func TestBaseClient_URL(t *testing.T) {
	cases := []struct {
		base    string
		relPath string
		query   url.Values
		want    string
	}{
		{"http://localhost:8000", "/conversations", nil, "http://localhost:8000/conversations"},
		{"http://localhost:8000/", "conversations/5", nil, "http://localhost:8000/conversations/5"},
		{"http://gw/api", "/back/models", nil, "http://gw/api/back/models"},
		{"http://localhost:8000", "/conversations/5/messages/stream", url.Values{"model": {"llama3"}}, "http://localhost:8000/conversations/5/messages/stream?model=llama3"},
	}
	for _, tc := range cases {
		c := NewBaseClient(tc.base)
		got, err := c.URL(tc.relPath, tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "base=%q rel=%q", tc.base, tc.relPath)
	}
}

func TestBaseClient_URLRejectsQueryInPath(t *testing.T) {
	c := NewBaseClient("http://localhost:8000")
	_, err := c.URL("/models?x=1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")
}

func TestDoJSON_SendsJSONAndDecodes(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotCT, gotReqID, gotSpan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotMethod, gotPath, gotBody = r.Method, r.URL.Path, string(b)
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get(trace.HeaderRequestID)
		gotSpan = r.Header.Get(trace.HeaderSpanID)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	ctx := trace.WithRequestAndSpan(context.Background(), "req-abc", 0)

	var out struct {
		ID int64 `json:"id"`
	}
	err := c.DoJSON(ctx, http.MethodPost, "/conversations", nil, map[string]string{"title": "Test"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/conversations", gotPath)
	assert.JSONEq(t, `{"title":"Test"}`, gotBody)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "req-abc", gotReqID)
	assert.Equal(t, "1", gotSpan)
	assert.Equal(t, int64(7), out.ID)
}

func TestDoJSON_EmptyBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out map[string]any
	err := NewBaseClient(srv.URL).DoJSON(context.Background(), http.MethodDelete, "/conversations/1", nil, nil, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDoJSON_Non2xx(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		notFound bool
	}{
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "server error", status: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			}))
			defer srv.Close()

			var out map[string]any
			err := NewBaseClient(srv.URL).DoJSON(context.Background(), http.MethodGet, "/models", nil, nil, &out)
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tc.status, httpErr.StatusCode)
			assert.Equal(t, http.MethodGet, httpErr.Method)
			assert.Contains(t, httpErr.Body, "nope")
			assert.Equal(t, tc.notFound, errors.Is(err, ErrNotFound))
			assert.Nil(t, out)
		})
	}
}

func TestDoJSON_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewBaseClient(srv.URL).DoJSON(context.Background(), http.MethodGet, "/models", nil, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestDoJSON_NetworkError(t *testing.T) {
	hc := New(Config{Timeout: 100 * time.Millisecond})
	c := NewBaseClientWithClient(hc, "http://127.0.0.1:1")
	err := c.DoJSON(context.Background(), http.MethodGet, "/models", nil, nil, nil)
	require.Error(t, err)
}

func TestNew_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, NewDefault().Timeout)
	assert.Equal(t, 2*time.Second, New(Config{Timeout: 2 * time.Second}).Timeout)
}

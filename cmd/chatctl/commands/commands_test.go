package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ollama-chat/config"
)

type hit struct {
	Method string
	Path   string
	Body   string
}

type fakeBackend struct {
	mu   sync.Mutex
	hits []hit
	srv  *httptest.Server
}

// newFakeBackend answers list endpoints with arrays and everything else with
// a small object.
func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.hits = append(fb.hits, hit{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models"):
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
		case r.Method == http.MethodGet && (strings.HasSuffix(r.URL.Path, "/conversations") || strings.HasSuffix(r.URL.Path, "/messages")):
			_, _ = w.Write([]byte(`[]`))
		case strings.HasSuffix(r.URL.Path, "/conversations/500"):
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"boom"}`))
		default:
			_, _ = w.Write([]byte(`{"id":1,"title":"Test"}`))
		}
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) hit {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.hits)
	return fb.hits[len(fb.hits)-1]
}

func run(t *testing.T, fb *fakeBackend, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = fb.srv.URL
	cfg.ChatService.BaseURL = fb.srv.URL

	cmd := NewRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConversationCommands(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		method   string
		path     string
		wantBody string
	}{
		{"list", []string{"conversations", "list"}, http.MethodGet, "/back/conversations", ""},
		{"get", []string{"conversations", "get", "42"}, http.MethodGet, "/back/conversations/42", ""},
		{"get string id", []string{"conversations", "get", "665f1c"}, http.MethodGet, "/back/conversations/665f1c", ""},
		{"create", []string{"conversations", "create", "Test"}, http.MethodPost, "/back/conversations", `{"title":"Test"}`},
		{"update", []string{"conversations", "update", "3", "--title", "New"}, http.MethodPut, "/back/conversations/3", `{"title":"New"}`},
		{"update nothing", []string{"conversations", "update", "3"}, http.MethodPut, "/back/conversations/3", `{}`},
		{"delete", []string{"conversations", "delete", "9"}, http.MethodDelete, "/back/conversations/9", ""},
		{"messages", []string{"conversations", "messages", "5"}, http.MethodGet, "/back/conversations/5/messages", ""},
		{"add default model", []string{"conversations", "add", "1", "hi"}, http.MethodPost, "/back/conversations/1/messages", `{"content":"hi","model":"llama3"}`},
		{"add explicit model", []string{"conversations", "add", "1", "hi", "--model", "mistral"}, http.MethodPost, "/back/conversations/1/messages", `{"content":"hi","model":"mistral"}`},
		{"direct variant", []string{"--variant", "direct", "conversations", "list"}, http.MethodGet, "/conversations", ""},
		{"chat", []string{"chat", "hello"}, http.MethodPost, "/back/chat", `{"message":"hello","model":"llama3"}`},
		{"chat default model flag", []string{"--default-model", "phi3", "chat", "hello"}, http.MethodPost, "/back/chat", `{"message":"hello","model":"phi3"}`},
		{"models", []string{"models"}, http.MethodGet, "/back/models", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			_, err := run(t, fb, tc.args...)
			require.NoError(t, err)

			got := fb.last(t)
			assert.Len(t, fb.hits, 1)
			assert.Equal(t, tc.method, got.Method)
			assert.Equal(t, tc.path, got.Path)
			if tc.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tc.wantBody, got.Body)
			}
		})
	}
}

func TestServiceCommands(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		method   string
		path     string
		wantBody string
	}{
		{"get", []string{"service", "get", "4"}, http.MethodGet, "/conversations/4", ""},
		{"list", []string{"service", "list"}, http.MethodGet, "/conversations", ""},
		{"create", []string{"service", "create", "Test"}, http.MethodPost, "/conversations", `{"title":"Test"}`},
		{"rename", []string{"service", "rename", "3", "Renamed"}, http.MethodPut, "/conversations/3", `{"title":"Renamed"}`},
		{"save user", []string{"service", "save-user", "2", "hi"}, http.MethodPost, "/conversations/2/messages/user", `{"content":"hi"}`},
		{"save assistant", []string{"service", "save-assistant", "2", "yo"}, http.MethodPost, "/conversations/2/messages/assistant", `{"content":"yo"}`},
		{"models", []string{"service", "models"}, http.MethodGet, "/models", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			_, err := run(t, fb, tc.args...)
			require.NoError(t, err)

			got := fb.last(t)
			assert.Equal(t, tc.method, got.Method)
			assert.Equal(t, tc.path, got.Path)
			if tc.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tc.wantBody, got.Body)
			}
		})
	}
}

func TestModelsOutput(t *testing.T) {
	fb := newFakeBackend(t)
	out, err := run(t, fb, "models")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"llama3", "mistral"}, names)
}

func TestStreamURLCommand(t *testing.T) {
	fb := newFakeBackend(t)
	out, err := run(t, fb, "service", "stream-url", "5", "--model", "llama3")
	require.NoError(t, err)
	assert.Equal(t, fb.srv.URL+"/conversations/5/messages/stream?model=llama3\n", out)
	assert.Empty(t, fb.hits, "stream-url must not issue a request")
}

func TestRouteCommand(t *testing.T) {
	fb := newFakeBackend(t)
	out, err := run(t, fb, "route", "/chat/42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"chat","view":"ChatView","path":"/chat/42","params":{"id":"42"}}`, out)

	_, err = run(t, fb, "route", "/nowhere")
	require.Error(t, err)
}

func TestErrors(t *testing.T) {
	fb := newFakeBackend(t)

	for _, id := range []string{"a/b", " ", "..", "1?x"} {
		_, err := run(t, fb, "conversations", "get", id)
		require.Error(t, err, id)
		assert.Contains(t, err.Error(), "invalid conversation id", id)
	}
	assert.Empty(t, fb.hits)

	_, err := run(t, fb, "conversations", "get", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	_, err = run(t, fb, "--variant", "sideways", "models")
	require.Error(t, err)
}

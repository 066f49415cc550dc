package chatserviceclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"ollama-chat/cmd/internal/httpclient"
	"ollama-chat/models"
)

// Client is a thin client for the chat service's message-role API. Unlike
// chatclient it always targets an absolute base URL and stores user and
// assistant turns through separate endpoints.
//
// baseURL example: http://localhost:8000
type Client struct {
	base         *httpclient.BaseClient
	defaultModel string
}

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultModel   = "llama3"
)

type Config struct {
	// BaseURL falls back to CHAT_SERVICE_BASE_URL, then DefaultBaseURL.
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = os.Getenv("CHAT_SERVICE_BASE_URL")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	}
	return &Client{
		base:         httpclient.NewBaseClientWithClient(httpClient, base),
		defaultModel: model,
	}
}

func (c *Client) BaseURL() string {
	return c.base.BaseURL
}

type titleRequest struct {
	Title string `json:"title"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func conversationPath(id models.ID, elem ...string) string {
	return path.Join(append([]string{"/conversations", id.String()}, elem...)...)
}

func (c *Client) do(ctx context.Context, op, method, relPath string, in, out any) error {
	if err := c.base.DoJSON(ctx, method, relPath, nil, in, out); err != nil {
		return fmt.Errorf("chat-service %s: %w", op, err)
	}
	return nil
}

// -------------------- Conversations --------------------

// GetConversation fetches a conversation together with its messages.
func (c *Client) GetConversation(ctx context.Context, id models.ID) (models.Conversation, error) {
	var out models.Conversation
	if err := c.do(ctx, "GetConversation", http.MethodGet, conversationPath(id), nil, &out); err != nil {
		return models.Conversation{}, err
	}
	return out, nil
}

func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := c.do(ctx, "ListConversations", http.MethodGet, "/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConversation returns the created conversation; servers that only
// answer with an id fill just ID.
func (c *Client) CreateConversation(ctx context.Context, title string) (models.Conversation, error) {
	var out models.Conversation
	if err := c.do(ctx, "CreateConversation", http.MethodPost, "/conversations", titleRequest{Title: title}, &out); err != nil {
		return models.Conversation{}, err
	}
	return out, nil
}

func (c *Client) UpdateConversationTitle(ctx context.Context, id models.ID, title string) error {
	return c.do(ctx, "UpdateConversationTitle", http.MethodPut, conversationPath(id), titleRequest{Title: title}, nil)
}

// -------------------- Messages --------------------

func (c *Client) SaveUserMessage(ctx context.Context, conversationID models.ID, content string) (models.Message, error) {
	return c.saveMessage(ctx, "SaveUserMessage", conversationID, models.RoleUser, content)
}

func (c *Client) SaveAssistantMessage(ctx context.Context, conversationID models.ID, content string) (models.Message, error) {
	return c.saveMessage(ctx, "SaveAssistantMessage", conversationID, models.RoleAssistant, content)
}

func (c *Client) saveMessage(ctx context.Context, op string, conversationID models.ID, role models.Role, content string) (models.Message, error) {
	var out models.Message
	relPath := conversationPath(conversationID, "messages", string(role))
	if err := c.do(ctx, op, http.MethodPost, relPath, contentRequest{Content: content}, &out); err != nil {
		return models.Message{}, err
	}
	return out, nil
}

// -------------------- Models --------------------

func (c *Client) GetAvailableModels(ctx context.Context) (models.ModelList, error) {
	var out models.ModelList
	if err := c.do(ctx, "GetAvailableModels", http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// -------------------- Streaming --------------------

// StreamURL builds the URL of the incremental reply stream. It performs no
// request; consuming the stream is up to the caller.
func (c *Client) StreamURL(conversationID models.ID, model string) string {
	if strings.TrimSpace(model) == "" {
		model = c.defaultModel
	}
	q := url.Values{"model": {model}}
	u, err := c.base.URL(conversationPath(conversationID, "messages", "stream"), q)
	if err != nil {
		// base URL was not parseable; fall back to plain concatenation
		return strings.TrimRight(c.base.BaseURL, "/") + conversationPath(conversationID, "messages", "stream") + "?" + q.Encode()
	}
	return u
}

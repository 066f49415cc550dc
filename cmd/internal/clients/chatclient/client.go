package chatclient

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"ollama-chat/cmd/internal/httpclient"
	"ollama-chat/models"
)

// Client calls the conversation service and its Ollama passthrough.
//
// The same client serves both deployment topologies: behind the web shell the
// API is mounted under /back (VariantProxied); talking to the service itself
// it is mounted at the root (VariantDirect). The prefix is fixed at
// construction and never changes afterwards.
type Client struct {
	base         *httpclient.BaseClient
	prefix       string
	defaultModel string

	Conversations *ConversationsService
	Ollama        *OllamaService
}

type Variant string

const (
	VariantProxied Variant = "proxied"
	VariantDirect  Variant = "direct"
)

const DefaultModel = "llama3"

// PathPrefix returns the path every endpoint is mounted under.
func (v Variant) PathPrefix() (string, error) {
	switch Variant(strings.ToLower(string(v))) {
	case VariantProxied:
		return "/back", nil
	case VariantDirect, "":
		return "", nil
	default:
		return "", fmt.Errorf("chatclient: unknown variant %q", string(v))
	}
}

type Config struct {
	BaseURL string
	Variant Variant
	// BasePath overrides the prefix implied by Variant when non-empty.
	BasePath     string
	DefaultModel string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("chatclient: base url must not be empty")
	}
	prefix, err := cfg.Variant.PathPrefix()
	if err != nil {
		return nil, err
	}
	if bp := strings.TrimSpace(cfg.BasePath); bp != "" {
		prefix = path.Clean("/" + bp)
		if prefix == "/" {
			prefix = ""
		}
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	}

	c := &Client{
		base:         httpclient.NewBaseClientWithClient(httpClient, cfg.BaseURL),
		prefix:       prefix,
		defaultModel: model,
	}
	c.Conversations = &ConversationsService{client: c}
	c.Ollama = &OllamaService{client: c}
	return c, nil
}

// Prefix reports the path prefix in effect, "" for the direct variant.
func (c *Client) Prefix() string {
	return c.prefix
}

func (c *Client) DefaultModel() string {
	return c.defaultModel
}

func (c *Client) endpoint(elem ...string) string {
	return path.Join(append([]string{"/", c.prefix}, elem...)...)
}

func (c *Client) do(ctx context.Context, method, relPath string, in, out any) error {
	if err := c.base.DoJSON(ctx, method, relPath, nil, in, out); err != nil {
		return fmt.Errorf("chatclient: %s %s: %w", method, relPath, err)
	}
	return nil
}

// MessageOption customises a message-sending call.
type MessageOption func(*messageOptions)

type messageOptions struct {
	model string
}

// WithModel selects the model that answers the message. An empty name keeps
// the client default.
func WithModel(model string) MessageOption {
	return func(o *messageOptions) {
		if m := strings.TrimSpace(model); m != "" {
			o.model = m
		}
	}
}

func (c *Client) resolveModel(opts []MessageOption) string {
	o := messageOptions{model: c.defaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o.model
}

func idSegment(id models.ID) string {
	return id.String()
}

// -------------------- Conversations --------------------

type ConversationsService struct {
	client *Client
}

type createConversationRequest struct {
	Title string `json:"title"`
}

type addMessageRequest struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// GetAll lists every conversation.
func (s *ConversationsService) GetAll(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := s.client.do(ctx, http.MethodGet, s.client.endpoint("conversations"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one conversation, with its messages when the server embeds them.
func (s *ConversationsService) Get(ctx context.Context, id models.ID) (models.Conversation, error) {
	var out models.Conversation
	if err := s.client.do(ctx, http.MethodGet, s.client.endpoint("conversations", idSegment(id)), nil, &out); err != nil {
		return models.Conversation{}, err
	}
	return out, nil
}

func (s *ConversationsService) Create(ctx context.Context, title string) (models.Conversation, error) {
	var out models.Conversation
	body := createConversationRequest{Title: title}
	if err := s.client.do(ctx, http.MethodPost, s.client.endpoint("conversations"), body, &out); err != nil {
		return models.Conversation{}, err
	}
	return out, nil
}

// Update sends data as-is, so it serves both full and partial updates.
func (s *ConversationsService) Update(ctx context.Context, id models.ID, data models.ConversationUpdate) (models.Conversation, error) {
	var out models.Conversation
	if err := s.client.do(ctx, http.MethodPut, s.client.endpoint("conversations", idSegment(id)), data, &out); err != nil {
		return models.Conversation{}, err
	}
	return out, nil
}

func (s *ConversationsService) Delete(ctx context.Context, id models.ID) error {
	return s.client.do(ctx, http.MethodDelete, s.client.endpoint("conversations", idSegment(id)), nil, nil)
}

func (s *ConversationsService) GetMessages(ctx context.Context, id models.ID) ([]models.Message, error) {
	var out []models.Message
	if err := s.client.do(ctx, http.MethodGet, s.client.endpoint("conversations", idSegment(id), "messages"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMessage stores content in the conversation and lets the chosen model
// answer it. The model defaults to the client default (llama3).
func (s *ConversationsService) AddMessage(ctx context.Context, id models.ID, content string, opts ...MessageOption) (models.Message, error) {
	var out models.Message
	body := addMessageRequest{Content: content, Model: s.client.resolveModel(opts)}
	if err := s.client.do(ctx, http.MethodPost, s.client.endpoint("conversations", idSegment(id), "messages"), body, &out); err != nil {
		return models.Message{}, err
	}
	return out, nil
}

// -------------------- Ollama --------------------

type OllamaService struct {
	client *Client
}

type sendMessageRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

func (s *OllamaService) GetModels(ctx context.Context) (models.ModelList, error) {
	var out models.ModelList
	if err := s.client.do(ctx, http.MethodGet, s.client.endpoint("models"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage chats with the model directly; nothing is persisted.
func (s *OllamaService) SendMessage(ctx context.Context, message string, opts ...MessageOption) (models.ChatReply, error) {
	var out models.ChatReply
	body := sendMessageRequest{Message: message, Model: s.client.resolveModel(opts)}
	if err := s.client.do(ctx, http.MethodPost, s.client.endpoint("chat"), body, &out); err != nil {
		return models.ChatReply{}, err
	}
	return out, nil
}

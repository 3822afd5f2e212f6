// Package chat sends conversations to a chat-completions endpoint and keeps
// a persisted tally of the request quota the provider reports.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/pubsub"
	"dashboard/internal/remote"
	"dashboard/internal/repository"
	"dashboard/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultModel   = "openai/gpt-4.1-mini"
	DefaultBaseURL = "https://models.github.ai/inference"
)

// Sampling parameters sent with every request
const (
	Temperature = 0.7
	TopP        = 1.0
	MaxTokens   = 1000
)

// Settings configure the endpoint and model
type Settings struct {
	Token        string `json:"token"`
	Model        string `json:"model,omitempty"`
	BaseURL      string `json:"baseUrl,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// Configured reports whether a token is present
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.Token) != ""
}

func (s Settings) normalized() Settings {
	s.Token = strings.TrimSpace(s.Token)
	s.Model = strings.TrimSpace(s.Model)
	if s.Model == "" {
		s.Model = DefaultModel
	}
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	return s
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

var messages = remote.Messages{
	Auth:       "chat token is invalid or expired",
	Permission: "chat token is not allowed to use this model",
	NotFound:   "chat model not found",
	Validation: "chat request was rejected",
	RateLimit:  "chat request limit reached",
	Unknown:    "chat service returned an unexpected error",
}

func extractError(body []byte) remote.ProviderError {
	var r struct {
		Error *struct {
			Code    any    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return remote.ProviderError{Message: strings.TrimSpace(string(body))}
	}
	if r.Error != nil {
		code, _ := r.Error.Code.(string)
		return remote.ProviderError{Code: code, Message: r.Error.Message}
	}
	return remote.ProviderError{Message: r.Message}
}

// Option configures a Client
type Option func(*Client)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithDefaultLimit sets the quota assumed before any limit header is seen
func WithDefaultLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.defaultLimit = n
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Client sends chat completions and tracks the request quota
type Client struct {
	mu       sync.Mutex
	settings Settings
	ready    bool
	usage    domain.RateLimit

	http         *http.Client
	api          *remote.Client
	slot         *store.Slot[domain.RateLimit]
	updates      pubsub.Broker[domain.RateLimit]
	defaultLimit int
	userAgent    string
	now          func() time.Time
	logger       *zap.Logger
}

// New returns an unconfigured client whose counter lives in repo
func New(httpClient *http.Client, repo repository.Repository, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		http:         httpClient,
		slot:         store.NewSlot[domain.RateLimit](repo, repository.KeyChatRateLimit, "rate limit counter"),
		defaultLimit: DefaultLimit,
		now:          time.Now,
		logger:       logger.Named("chat"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.api = remote.NewClient(c.http, remote.StatusClassifier(messages, extractError, nil),
		remote.WithUserAgent(c.userAgent), remote.WithClientLogger(c.logger))
	return c
}

// LoadUsage reads the persisted counter. A missing or unreadable counter
// starts from zero.
func (c *Client) LoadUsage(ctx context.Context) error {
	usage, _, err := c.slot.Load(ctx)
	if err != nil && !errors.IsErrorType(err, errors.ErrorTypeFormat) {
		return err
	}
	if err != nil {
		c.logger.Warn("discarding malformed rate limit counter", zap.Error(err))
	}
	c.mu.Lock()
	c.usage = usage
	c.mu.Unlock()
	return nil
}

// Configure installs settings; an empty token is rejected
func (c *Client) Configure(s Settings) error {
	s = s.normalized()
	if !s.Configured() {
		return errors.NewInvalidInputError("token", "", "cannot be empty")
	}
	c.mu.Lock()
	c.settings = s
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Settings returns the active settings and whether the client is configured
func (c *Client) Settings() (Settings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings, c.ready
}

// Usage returns the current counter, rolled over if its window has ended
func (c *Client) Usage() domain.RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	usage, _ := rollover(c.usage, c.now())
	return usage
}

// SubscribeUsage is notified after every counter change. fn runs while the
// counter is locked and must not call back into the client.
func (c *Client) SubscribeUsage(fn func(domain.RateLimit)) (unsubscribe func()) {
	return c.updates.Subscribe(fn)
}

// ResetUsage zeroes the counter and forgets the observed limit
func (c *Client) ResetUsage(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = domain.RateLimit{UpdatedAt: c.now()}
	err := c.slot.Save(ctx, c.usage)
	c.updates.Publish(c.usage)
	return err
}

// Send asks for a completion of history followed by text. The system
// prompt is prepended when history carries none.
func (c *Client) Send(ctx context.Context, text string, history []domain.ChatMessage) (string, error) {
	s, ok := c.Settings()
	if !ok {
		return "", errors.NewNotConfiguredError("Chat")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.NewInvalidInputError("message", text, "cannot be empty")
	}

	req := completionRequest{
		Model:       s.Model,
		Messages:    buildMessages(s.SystemPrompt, history, text),
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxTokens,
	}

	var resp completionResponse
	httpResp, err := c.api.Do(ctx, http.MethodPost, s.BaseURL+"/chat/completions", req, &resp, remote.WithBearer(s.Token))
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeRateLimit) && httpResp != nil {
			c.record(ctx, func(rl domain.RateLimit, now time.Time) domain.RateLimit {
				return exhaust(rl, httpResp.Header, now, c.defaultLimit)
			})
		}
		return "", err
	}
	if resp.Error != nil && resp.Error.Message != "" {
		return "", errors.NewUnknownError(resp.Error.Message, nil)
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewUnknownError("chat service returned no choices", nil)
	}

	c.record(ctx, func(rl domain.RateLimit, now time.Time) domain.RateLimit {
		rl.CallsUsed++
		return applyHeaders(rl, httpResp.Header, now)
	})
	return resp.Choices[0].Message.Content, nil
}

// record applies change to the counter, persists it and notifies
// subscribers. Persist failures keep the in-memory counter.
func (c *Client) record(ctx context.Context, change func(domain.RateLimit, time.Time) domain.RateLimit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	usage, _ := rollover(c.usage, now)
	usage = change(usage, now)
	usage.UpdatedAt = now
	c.usage = usage

	c.logger.Debug("rate limit updated",
		zap.Int("used", usage.CallsUsed),
		zap.Int("remaining", usage.CallsRemaining),
		zap.Int("limit", usage.Limit))

	if err := c.slot.Save(ctx, usage); err != nil {
		c.logger.Warn("failed to persist rate limit counter", zap.Error(err))
	}
	c.updates.Publish(usage)
}

func buildMessages(systemPrompt string, history []domain.ChatMessage, text string) []message {
	out := make([]message, 0, len(history)+2)
	hasSystem := false
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			hasSystem = true
			break
		}
	}
	if !hasSystem && strings.TrimSpace(systemPrompt) != "" {
		out = append(out, message{Role: string(domain.RoleSystem), Content: systemPrompt})
	}
	for _, m := range history {
		out = append(out, message{Role: string(m.Role), Content: m.Content})
	}
	return append(out, message{Role: string(domain.RoleUser), Content: text})
}

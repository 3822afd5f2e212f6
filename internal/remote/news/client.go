// Package news searches headlines by topic.
package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/remote"

	"go.uber.org/zap"
)

// DefaultBaseURL is the NewsAPI v2 endpoint
const DefaultBaseURL = "https://newsapi.org/v2"

// removedMarker is the title NewsAPI substitutes for withdrawn articles
const removedMarker = "[Removed]"

// Settings configure the news source
type Settings struct {
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Language string `json:"language,omitempty"`
}

// Configured reports whether an API key is present
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

func (s Settings) normalized() Settings {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.PageSize <= 0 || s.PageSize > 100 {
		s.PageSize = 10
	}
	if s.Language == "" {
		s.Language = "en"
	}
	return s
}

var messages = remote.Messages{
	Auth:       "news API key is invalid",
	Permission: "news API key is not allowed to use this endpoint",
	NotFound:   "news endpoint not found",
	Validation: "news search was rejected",
	RateLimit:  "news API request limit reached, try again later",
	Unknown:    "news service returned an unexpected error",
}

var providerCodes = map[string]errors.ErrorType{
	"apiKeyInvalid":     errors.ErrorTypeAuth,
	"apiKeyMissing":     errors.ErrorTypeAuth,
	"apiKeyDisabled":    errors.ErrorTypeAuth,
	"apiKeyExhausted":   errors.ErrorTypeRateLimit,
	"rateLimited":       errors.ErrorTypeRateLimit,
	"parameterInvalid":  errors.ErrorTypeValidation,
	"parametersMissing": errors.ErrorTypeValidation,
	"sourcesTooMany":    errors.ErrorTypeValidation,
}

type searchResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func extractError(body []byte) remote.ProviderError {
	var r searchResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return remote.ProviderError{}
	}
	return remote.ProviderError{Code: r.Code, Message: r.Message}
}

var classify = remote.StatusClassifier(messages, extractError, providerCodes)

// Client searches news
type Client struct {
	mu       sync.RWMutex
	settings Settings
	ready    bool

	api  *remote.Client
	feed *remote.Feed[domain.Article]
}

// New returns an unconfigured client
func New(httpClient *http.Client, logger *zap.Logger, userAgent string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api: remote.NewClient(httpClient, classify,
			remote.WithUserAgent(userAgent), remote.WithClientLogger(logger.Named("news"))),
		feed: remote.NewFeed[domain.Article](),
	}
}

// Configure installs settings; an empty API key is rejected
func (c *Client) Configure(s Settings) error {
	s = s.normalized()
	if !s.Configured() {
		return errors.NewInvalidInputError("apiKey", "", "cannot be empty")
	}
	c.mu.Lock()
	c.settings = s
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Settings returns the active settings and whether the client is configured
func (c *Client) Settings() (Settings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings, c.ready
}

// Feed is where Fetch publishes headlines
func (c *Client) Feed() *remote.Feed[domain.Article] {
	return c.feed
}

// Search returns the newest articles about topic
func (c *Client) Search(ctx context.Context, topic string) ([]domain.Article, error) {
	s, ok := c.Settings()
	if !ok {
		return nil, errors.NewNotConfiguredError("News")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.NewInvalidInputError("topic", topic, "cannot be empty")
	}

	q := url.Values{}
	q.Set("q", topic)
	q.Set("language", s.Language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(s.PageSize))

	var resp searchResponse
	if _, err := c.api.Do(ctx, http.MethodGet, s.BaseURL+"/everything?"+q.Encode(), nil, &resp,
		remote.WithHeader("X-Api-Key", s.APIKey)); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		body, _ := json.Marshal(resp)
		return nil, classify(http.StatusOK, body)
	}

	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == removedMarker || a.URL == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

// Fetch searches topic and publishes the result on the feed
func (c *Client) Fetch(ctx context.Context, topic string) ([]domain.Article, error) {
	articles, err := c.Search(ctx, topic)
	c.feed.Resolve(articles, err)
	if err != nil {
		return []domain.Article{}, err
	}
	return articles, nil
}

package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.Client(), nil, "dash-test")
	require.NoError(t, c.Configure(Settings{APIKey: "key", BaseURL: srv.URL, PageSize: 5}))
	return c
}

func TestClient_Search(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":3,"articles":[
			{"source":{"id":null,"name":"Go Blog"},"author":"Team","title":"Go 1.24","url":"https://go.dev/blog","urlToImage":"https://go.dev/img.png","publishedAt":"2025-02-11T10:00:00Z"},
			{"source":{"name":"x"},"title":"[Removed]","url":"https://removed.com","publishedAt":"1970-01-01T00:00:00Z"},
			{"source":{"name":"Wire"},"title":"Generics","description":"A look","url":"https://wire.example/g","publishedAt":"2025-02-10T08:00:00Z"}
		]}`))
	})

	articles, err := c.Search(context.Background(), " golang ")
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, domain.Article{
		Source:      "Go Blog",
		Author:      "Team",
		Title:       "Go 1.24",
		URL:         "https://go.dev/blog",
		ImageURL:    "https://go.dev/img.png",
		PublishedAt: time.Date(2025, 2, 11, 10, 0, 0, 0, time.UTC),
	}, articles[0])
	assert.Equal(t, "Generics", articles[1].Title)
}

func TestClient_ProviderCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   errors.ErrorType
	}{
		{"invalid key", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`, errors.ErrorTypeAuth},
		{"rate limited", http.StatusTooManyRequests, `{"status":"error","code":"rateLimited","message":"Too many"}`, errors.ErrorTypeRateLimit},
		{"bad parameter", http.StatusBadRequest, `{"status":"error","code":"parameterInvalid","message":"q is too long"}`, errors.ErrorTypeValidation},
		{"error on 200", http.StatusOK, `{"status":"error","code":"apiKeyDisabled","message":"disabled"}`, errors.ErrorTypeAuth},
		{"server fault", http.StatusInternalServerError, `{"status":"error","code":"unexpectedError","message":"boom"}`, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Search(context.Background(), "go")
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, tt.want), "got %v", err)
		})
	}
}

func TestClient_FetchPublishes(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	var results [][]domain.Article
	var failures []error
	c.Feed().Results(func(a []domain.Article) { results = append(results, a) })
	c.Feed().Errors(func(err error) { failures = append(failures, err) })

	got, err := c.Fetch(context.Background(), "go")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, results, 1)
	assert.NotNil(t, results[0])

	_, err = c.Fetch(context.Background(), "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Len(t, failures, 1)
}

func TestClient_Unconfigured(t *testing.T) {
	c := New(nil, nil, "")
	_, err := c.Search(context.Background(), "go")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotConfigured))
	assert.Error(t, c.Configure(Settings{}))
}

func TestSettings_Normalized(t *testing.T) {
	s := Settings{APIKey: "k", PageSize: 500}.normalized()
	assert.Equal(t, 10, s.PageSize)
	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, "en", s.Language)
}

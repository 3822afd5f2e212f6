package graph

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/remote"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// maxPages bounds how many @odata.nextLink pages a calendar read follows
const maxPages = 50

const pageSize = 50

var messages = remote.Messages{
	Auth:       "Microsoft Graph access token is invalid or expired",
	Permission: "Microsoft Graph access token lacks a required permission (Calendars.Read, Presence.Read.All or User.ReadBasic.All)",
	NotFound:   "Microsoft Graph resource not found",
	Validation: "Microsoft Graph rejected the request",
	RateLimit:  "Microsoft Graph is throttling requests, try again shortly",
	Unknown:    "Microsoft Graph returned an unexpected error",
}

var providerCodes = map[string]errors.ErrorType{
	"InvalidAuthenticationToken":  errors.ErrorTypeAuth,
	"Authorization_RequestDenied": errors.ErrorTypePermission,
	"ErrorAccessDenied":           errors.ErrorTypePermission,
	"ResourceNotFound":            errors.ErrorTypeNotFound,
	"ErrorItemNotFound":           errors.ErrorTypeNotFound,
	"Request_ResourceNotFound":    errors.ErrorTypeNotFound,
	"ApplicationThrottled":        errors.ErrorTypeRateLimit,
	"TooManyRequests":             errors.ErrorTypeRateLimit,
	"ErrorInvalidParameter":       errors.ErrorTypeValidation,
}

func extractError(body []byte) remote.ProviderError {
	code, message := decodeError(body)
	return remote.ProviderError{Code: code, Message: message}
}

// Client talks to Microsoft Graph on behalf of the signed-in user
type Client struct {
	mu       sync.RWMutex
	settings Settings
	api      *remote.Client

	base      *http.Client
	userAgent string
	logger    *zap.Logger

	calendar *remote.Feed[domain.CalendarEvent]
	presence *remote.Feed[domain.Presence]
}

// Option configures a Client
type Option func(*Client)

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns an unconfigured client. httpClient supplies the transport
// and timeout underneath the token source.
func New(httpClient *http.Client, logger *zap.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		base:     httpClient,
		logger:   logger.Named("graph"),
		calendar: remote.NewFeed[domain.CalendarEvent](),
		presence: remote.NewFeed[domain.Presence](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure installs a token. An empty token is rejected.
func (c *Client) Configure(s Settings) error {
	s = s.normalized()
	if !s.Configured() {
		return errors.NewInvalidInputError("accessToken", "", "cannot be empty")
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
	}))
	authed.Timeout = c.base.Timeout

	api := remote.NewClient(authed, remote.StatusClassifier(messages, extractError, providerCodes),
		remote.WithUserAgent(c.userAgent), remote.WithClientLogger(c.logger))

	c.mu.Lock()
	c.settings = s
	c.api = api
	c.mu.Unlock()
	return nil
}

// Settings returns the active settings and whether the client is configured
func (c *Client) Settings() (Settings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings, c.api != nil
}

// CalendarFeed is where Fetch publishes events
func (c *Client) CalendarFeed() *remote.Feed[domain.CalendarEvent] {
	return c.calendar
}

// PresenceFeed is where FetchPresence publishes statuses
func (c *Client) PresenceFeed() *remote.Feed[domain.Presence] {
	return c.presence
}

func (c *Client) current() (Settings, *remote.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.api == nil {
		return Settings{}, nil, errors.NewNotConfiguredError("Microsoft Graph")
	}
	return c.settings, c.api, nil
}

// Me returns the signed-in user's profile
func (c *Client) Me(ctx context.Context) (domain.Profile, error) {
	s, api, err := c.current()
	if err != nil {
		return domain.Profile{}, err
	}
	var u userEntry
	if _, err := api.Do(ctx, http.MethodGet, s.BaseURL+"/me?$select=id,displayName,jobTitle,mail,officeLocation", nil, &u); err != nil {
		return domain.Profile{}, err
	}
	return u.toProfile(), nil
}

// TestConnection probes the token with /me
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Me(ctx)
	return err
}

// CalendarView returns the events overlapping [start, end), following
// every result page
func (c *Client) CalendarView(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	s, api, err := c.current()
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("startDateTime", start.UTC().Format(time.RFC3339))
	q.Set("endDateTime", end.UTC().Format(time.RFC3339))
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", strconv.Itoa(pageSize))
	next := s.BaseURL + "/me/calendarView?" + q.Encode()
	prefer := remote.WithHeader("Prefer", `outlook.timezone="`+s.TimeZone+`"`)

	events := []domain.CalendarEvent{}
	for page := 0; next != ""; page++ {
		if page == maxPages {
			c.logger.Warn("calendar view truncated", zap.Int("pages", page), zap.Int("events", len(events)))
			break
		}
		var resp eventPage
		if _, err := api.Do(ctx, http.MethodGet, next, nil, &resp, prefer); err != nil {
			return nil, err
		}
		for _, e := range resp.Value {
			events = append(events, e.toEvent())
		}
		next = resp.NextLink
	}
	return events, nil
}

// Fetch reads r and publishes the events on the calendar feed
func (c *Client) Fetch(ctx context.Context, r DateRange) ([]domain.CalendarEvent, error) {
	events, err := c.CalendarView(ctx, r.Start, r.End)
	c.calendar.Resolve(events, err)
	if err != nil {
		return []domain.CalendarEvent{}, err
	}
	return events, nil
}

// Presences returns the status of each user id, in request order
func (c *Client) Presences(ctx context.Context, userIDs []string) ([]domain.Presence, error) {
	s, api, err := c.current()
	if err != nil {
		return nil, err
	}
	endpoint := s.BaseURL + "/communications/getPresencesByUserId"
	return remote.FetchBatched(ctx, userIDs, remote.BatchCeiling, func(ctx context.Context, chunk []string) ([]domain.Presence, error) {
		var resp presenceResponse
		if _, err := api.Do(ctx, http.MethodPost, endpoint, presenceRequest{IDs: chunk}, &resp); err != nil {
			return nil, err
		}
		byID := make(map[string]domain.Presence, len(resp.Value))
		for _, v := range resp.Value {
			byID[v.ID] = domain.Presence{UserID: v.ID, Availability: v.Availability, Activity: v.Activity}
		}
		out := make([]domain.Presence, 0, len(chunk))
		for _, id := range chunk {
			p, ok := byID[id]
			if !ok {
				p = domain.Presence{UserID: id, Availability: domain.AvailabilityUnknown}
			}
			out = append(out, p)
		}
		return out, nil
	})
}

// FetchPresence reads presences and publishes them on the presence feed
func (c *Client) FetchPresence(ctx context.Context, userIDs []string) ([]domain.Presence, error) {
	presences, err := c.Presences(ctx, userIDs)
	c.presence.Resolve(presences, err)
	if err != nil {
		return []domain.Presence{}, err
	}
	return presences, nil
}

// Profile returns a user's directory entry
func (c *Client) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	s, api, err := c.current()
	if err != nil {
		return domain.Profile{}, err
	}
	var u userEntry
	endpoint := s.BaseURL + "/users/" + url.PathEscape(userID) + "?$select=id,displayName,jobTitle,mail,officeLocation"
	if _, err := api.Do(ctx, http.MethodGet, endpoint, nil, &u); err != nil {
		return domain.Profile{}, err
	}
	return u.toProfile(), nil
}

// Photo returns a user's profile photo bytes, or nil when they have none
func (c *Client) Photo(ctx context.Context, userID string) ([]byte, error) {
	s, api, err := c.current()
	if err != nil {
		return nil, err
	}
	endpoint := s.BaseURL + "/users/" + url.PathEscape(userID) + "/photo/$value"
	data, _, err := api.DoRaw(ctx, http.MethodGet, endpoint, nil, remote.WithHeader("Accept", "image/*"))
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

package devops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/remote"
	"dashboard/internal/views"

	"go.uber.org/zap"
)

var messages = remote.Messages{
	Auth:       "Azure DevOps personal access token is invalid or expired",
	Permission: "Azure DevOps personal access token lacks the Work Items (Read) scope",
	NotFound:   "Azure DevOps organization or project not found",
	Validation: "work item query was rejected",
	RateLimit:  "Azure DevOps is throttling requests, try again shortly",
	Unknown:    "Azure DevOps returned an unexpected error",
}

var providerCodes = map[string]errors.ErrorType{
	"WorkItemTrackingQueryResultSizeLimitExceededException": errors.ErrorTypeValidation,
	"ProjectDoesNotExistWithNameException":                  errors.ErrorTypeNotFound,
	"InvalidAccessException":                                errors.ErrorTypeAuth,
}

func extractError(body []byte) remote.ProviderError {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return remote.ProviderError{}
	}
	return remote.ProviderError{Code: e.TypeKey, Message: e.Message}
}

// SourceWarning records a project that failed during a multi-project fetch
type SourceWarning struct {
	Source domain.Source
	Err    error
}

// FetchReport is the outcome of Fetch. Err is set only when every project failed.
type FetchReport struct {
	Items    []domain.WorkItem
	Warnings []SourceWarning
	Err      error
}

// Option configures a Client
type Option func(*Client)

// WithBatchCeiling overrides the ids per workitemsbatch request
func WithBatchCeiling(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.ceiling = n
		}
	}
}

// WithClock replaces time.Now as the reference for undated sprint names
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Client queries Azure DevOps
type Client struct {
	mu       sync.RWMutex
	settings Settings
	ready    bool

	http      *http.Client
	userAgent string
	api       *remote.Client
	feed      *remote.Feed[domain.WorkItem]
	ceiling   int
	now       func() time.Time
	logger    *zap.Logger
}

// New returns an unconfigured client
func New(httpClient *http.Client, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		http:    httpClient,
		feed:    remote.NewFeed[domain.WorkItem](),
		ceiling: remote.BatchCeiling,
		now:     time.Now,
		logger:  logger.Named("devops"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.api = remote.NewClient(c.http, remote.StatusClassifier(messages, extractError, providerCodes),
		remote.WithUserAgent(c.userAgent), remote.WithClientLogger(c.logger))
	return c
}

// Configure installs settings. Incomplete settings are rejected and leave
// the previous configuration in place.
func (c *Client) Configure(s Settings) error {
	s = s.normalized()
	if err := s.Validate(); err != nil {
		return err
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

// Feed is where Fetch publishes work items and failures
func (c *Client) Feed() *remote.Feed[domain.WorkItem] {
	return c.feed
}

func (c *Client) current() (Settings, error) {
	s, ok := c.Settings()
	if !ok {
		return Settings{}, notConfigured()
	}
	return s, nil
}

// TestConnection probes the first configured project
func (c *Client) TestConnection(ctx context.Context) error {
	s, err := c.current()
	if err != nil {
		return err
	}
	endpoint := s.orgURL() + "/_apis/projects/" + url.PathEscape(s.Projects[0].Name) + "?api-version=" + apiVersion
	_, err = c.api.Do(ctx, http.MethodGet, endpoint, nil, nil, s.auth())
	return err
}

// QueryProject runs q against one project and returns its items in query order
func (c *Client) QueryProject(ctx context.Context, project ProjectRef, q WorkItemQuery) ([]domain.WorkItem, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return c.queryProject(ctx, s, project, q)
}

func (c *Client) queryProject(ctx context.Context, s Settings, project ProjectRef, q WorkItemQuery) ([]domain.WorkItem, error) {
	var wiql wiqlResponse
	endpoint := s.projectURL(project, q.CurrentIteration) + "/_apis/wit/wiql?api-version=" + apiVersion + "&$top=" + strconv.Itoa(q.top())
	if _, err := c.api.Do(ctx, http.MethodPost, endpoint, wiqlRequest{Query: q.WIQL(project.Name)}, &wiql, s.auth()); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(wiql.WorkItems))
	for _, ref := range wiql.WorkItems {
		ids = append(ids, ref.ID)
	}
	if len(ids) > q.top() {
		ids = ids[:q.top()]
	}

	source := s.source(project)
	batchURL := s.orgURL() + "/_apis/wit/workitemsbatch?api-version=" + apiVersion
	return remote.FetchBatched(ctx, ids, c.ceiling, func(ctx context.Context, chunk []int) ([]domain.WorkItem, error) {
		var resp batchResponse
		if _, err := c.api.Do(ctx, http.MethodPost, batchURL, batchRequest{IDs: chunk, Fields: batchFields}, &resp, s.auth()); err != nil {
			return nil, err
		}
		return orderByIDs(chunk, resp.Value, func(e workItemEntry) domain.WorkItem {
			return s.toWorkItem(e, source)
		}), nil
	})
}

// Fetch queries every configured project in order and publishes the
// concatenated items. A failing project becomes a warning; only when all
// fail is the first error published.
func (c *Client) Fetch(ctx context.Context, q WorkItemQuery) FetchReport {
	s, err := c.current()
	if err != nil {
		c.feed.Resolve(nil, err)
		return FetchReport{Items: []domain.WorkItem{}, Err: err}
	}

	report := FetchReport{Items: []domain.WorkItem{}}
	var firstErr error
	for _, project := range s.Projects {
		items, err := c.queryProject(ctx, s, project, q)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			src := s.source(project)
			c.logger.Warn("work item source failed",
				zap.String("project", src.Project),
				zap.Error(err))
			report.Warnings = append(report.Warnings, SourceWarning{Source: src, Err: err})
			continue
		}
		report.Items = append(report.Items, items...)
	}

	if len(report.Warnings) == len(s.Projects) {
		report.Err = firstErr
		c.feed.Resolve(nil, firstErr)
		return report
	}
	c.feed.Resolve(report.Items, nil)
	return report
}

// Iterations lists the team iterations of project. Iterations without
// scheduled dates take them from their name or path when it encodes a range.
func (c *Client) Iterations(ctx context.Context, project ProjectRef) ([]domain.Iteration, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	var resp iterationsResponse
	endpoint := s.projectURL(project, true) + "/_apis/work/teamsettings/iterations?api-version=" + apiVersion
	if _, err := c.api.Do(ctx, http.MethodGet, endpoint, nil, &resp, s.auth()); err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]domain.Iteration, 0, len(resp.Value))
	for _, v := range resp.Value {
		it := domain.Iteration{
			ID:         v.ID,
			Name:       v.Name,
			Path:       v.Path,
			StartDate:  v.Attributes.StartDate,
			FinishDate: v.Attributes.FinishDate,
			TimeFrame:  v.Attributes.TimeFrame,
		}
		if it.StartDate == nil || it.FinishDate == nil {
			start, end, ok := views.ParseSprintDates(it.Name, now)
			if !ok {
				start, end, ok = views.ParseSprintDates(it.Path, now)
			}
			if ok {
				it.StartDate, it.FinishDate = &start, &end
			}
		}
		out = append(out, it)
	}
	return out, nil
}

// CurrentIteration returns the iteration whose time frame is current, if any
func CurrentIteration(iterations []domain.Iteration, now time.Time) (domain.Iteration, bool) {
	for _, it := range iterations {
		if it.TimeFrame == "current" {
			return it, true
		}
	}
	for _, it := range iterations {
		if it.StartDate != nil && it.FinishDate != nil &&
			!now.Before(*it.StartDate) && now.Before(it.FinishDate.AddDate(0, 0, 1)) {
			return it, true
		}
	}
	return domain.Iteration{}, false
}

// NextIteration returns the iteration numbered one past current ("Sprint 12"
// is followed by "Sprint 13"). Iterations without a number are ignored.
func NextIteration(iterations []domain.Iteration, current domain.Iteration) (domain.Iteration, bool) {
	n, ok := views.SprintNumber(current.Path)
	if !ok {
		return domain.Iteration{}, false
	}
	for _, it := range iterations {
		if it.ID == current.ID {
			continue
		}
		if m, ok := views.SprintNumber(it.Path); ok && m == n+1 {
			return it, true
		}
	}
	return domain.Iteration{}, false
}

func (s Settings) auth() remote.RequestOption {
	return remote.WithBasicAuth("", s.PAT)
}

func (s Settings) orgURL() string {
	return s.BaseURL + "/" + url.PathEscape(s.Organization)
}

// projectURL scopes to the team when one is set and team context is needed
func (s Settings) projectURL(p ProjectRef, withTeam bool) string {
	u := s.orgURL() + "/" + url.PathEscape(p.Name)
	if withTeam && p.Team != "" {
		u += "/" + url.PathEscape(p.Team)
	}
	return u
}

func (s Settings) toWorkItem(e workItemEntry, source domain.Source) domain.WorkItem {
	item := domain.WorkItem{
		ID:            e.ID,
		Title:         e.Fields.Title,
		Type:          e.Fields.Type,
		State:         e.Fields.State,
		Priority:      e.Fields.Priority,
		IterationPath: e.Fields.IterationPath,
		AreaPath:      e.Fields.AreaPath,
		Tags:          splitTags(e.Fields.Tags),
		ChangedDate:   e.Fields.ChangedDate,
		URL:           fmt.Sprintf("%s/%s/_workitems/edit/%d", s.orgURL(), url.PathEscape(source.Project), e.ID),
		Source:        source,
	}
	if e.Fields.AssignedTo != nil {
		item.AssignedTo = e.Fields.AssignedTo.DisplayName
	}
	return item
}

// orderByIDs returns entries in the order of ids; ids the server omitted are skipped
func orderByIDs(ids []int, entries []workItemEntry, convert func(workItemEntry) domain.WorkItem) []domain.WorkItem {
	byID := make(map[int]workItemEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	out := make([]domain.WorkItem, 0, len(entries))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, convert(e))
		}
	}
	return out
}

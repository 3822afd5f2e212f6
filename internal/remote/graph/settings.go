// Package graph reads the signed-in user's calendar and coworkers'
// presence and profiles from Microsoft Graph.
package graph

import (
	"strings"
	"time"
)

// DefaultBaseURL is the Graph v1.0 endpoint
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Settings hold the bearer token and the time zone events are rendered in
type Settings struct {
	AccessToken string `json:"accessToken"`
	BaseURL     string `json:"baseUrl,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
}

// Configured reports whether a token is present
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

func (s Settings) normalized() Settings {
	s.AccessToken = strings.TrimSpace(s.AccessToken)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	s.TimeZone = strings.TrimSpace(s.TimeZone)
	if s.TimeZone == "" {
		s.TimeZone = "UTC"
	}
	return s
}

// DateRange is a half-open interval [Start, End)
type DateRange struct {
	Start time.Time
	End   time.Time
}

// TodayRange covers the calendar day of now in now's location
func TodayRange(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekRange covers Monday through Sunday of the week containing now
func WeekRange(now time.Time) DateRange {
	today := TodayRange(now).Start
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return DateRange{Start: start, End: start.AddDate(0, 0, 7)}
}

package domain

import "time"

// CalendarEvent is an Outlook calendar entry
type CalendarEvent struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location,omitempty"`
	Organizer string    `json:"organizer,omitempty"`
	IsAllDay  bool      `json:"isAllDay"`
	IsOnline  bool      `json:"isOnline"`
	JoinURL   string    `json:"joinUrl,omitempty"`
	WebLink   string    `json:"webLink,omitempty"`
}

// Duration is the scheduled length of the event
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// InProgress reports whether now falls within the event
func (e CalendarEvent) InProgress(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

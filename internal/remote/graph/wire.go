package graph

import (
	"encoding/json"
	"time"

	"dashboard/internal/domain"
)

// graphDateTime is a local wall time plus the zone it is expressed in
type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// windowsZones maps the Windows zone names Graph may answer with
var windowsZones = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"GMT Standard Time":            "Europe/London",
	"W. Europe Standard Time":      "Europe/Berlin",
	"Romance Standard Time":        "Europe/Paris",
	"Central Europe Standard Time": "Europe/Budapest",
	"India Standard Time":          "Asia/Kolkata",
	"China Standard Time":          "Asia/Shanghai",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

func zoneLocation(name string) *time.Location {
	if iana, ok := windowsZones[name]; ok {
		name = iana
	}
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func (d graphDateTime) Time() (time.Time, bool) {
	loc := zoneLocation(d.TimeZone)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, d.DateTime, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type eventEntry struct {
	ID       string        `json:"id"`
	Subject  string        `json:"subject"`
	Start    graphDateTime `json:"start"`
	End      graphDateTime `json:"end"`
	IsAllDay bool          `json:"isAllDay"`
	IsOnline bool          `json:"isOnlineMeeting"`
	WebLink  string        `json:"webLink"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Organizer struct {
		EmailAddress struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"organizer"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

func (e eventEntry) toEvent() domain.CalendarEvent {
	start, _ := e.Start.Time()
	end, _ := e.End.Time()
	ev := domain.CalendarEvent{
		ID:        e.ID,
		Subject:   e.Subject,
		Start:     start,
		End:       end,
		Location:  e.Location.DisplayName,
		Organizer: e.Organizer.EmailAddress.Name,
		IsAllDay:  e.IsAllDay,
		IsOnline:  e.IsOnline,
		WebLink:   e.WebLink,
	}
	if e.OnlineMeeting != nil {
		ev.JoinURL = e.OnlineMeeting.JoinURL
	}
	return ev
}

type eventPage struct {
	Value    []eventEntry `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

type presenceRequest struct {
	IDs []string `json:"ids"`
}

type presenceResponse struct {
	Value []struct {
		ID           string `json:"id"`
		Availability string `json:"availability"`
		Activity     string `json:"activity"`
	} `json:"value"`
}

type userEntry struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	JobTitle       string `json:"jobTitle"`
	Mail           string `json:"mail"`
	OfficeLocation string `json:"officeLocation"`
}

func (u userEntry) toProfile() domain.Profile {
	return domain.Profile{
		UserID:         u.ID,
		DisplayName:    u.DisplayName,
		JobTitle:       u.JobTitle,
		Mail:           u.Mail,
		OfficeLocation: u.OfficeLocation,
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(body []byte) (code, message string) {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return "", ""
	}
	return e.Error.Code, e.Error.Message
}

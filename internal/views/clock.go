package views

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// zoneAliases maps common abbreviations to IANA zones
var zoneAliases = map[string]string{
	"UTC":  "UTC",
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"WET":  "Europe/Lisbon",
	"CET":  "Europe/Berlin",
	"CEST": "Europe/Berlin",
	"EET":  "Europe/Athens",
	"MSK":  "Europe/Moscow",
	"IST":  "Asia/Kolkata",
	"PKT":  "Asia/Karachi",
	"SGT":  "Asia/Singapore",
	"HKT":  "Asia/Hong_Kong",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"HST":  "Pacific/Honolulu",
	"BRT":  "America/Sao_Paulo",
	"JST":  "Asia/Tokyo",
	"KST":  "Asia/Seoul",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
	"NZST": "Pacific/Auckland",
}

// Working hours, local time
const (
	WorkdayStartHour = 9
	WorkdayEndHour   = 17
)

// ResolveZone returns the canonical IANA name for an IANA identifier or a
// known abbreviation.
func ResolveZone(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return "", false
	}
	if canonical, ok := zoneAliases[strings.ToUpper(name)]; ok {
		return canonical, true
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", false
	}
	return name, true
}

// LoadZone resolves name and loads its location
func LoadZone(name string) (*time.Location, error) {
	canonical, ok := ResolveZone(name)
	if !ok {
		return nil, fmt.Errorf("unknown time zone %q", name)
	}
	return time.LoadLocation(canonical)
}

// LocalTime is now seen from zone
func LocalTime(zone string, now time.Time) (time.Time, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}

// DayProgress is the percentage of zone's current local day that has
// elapsed. Days shortened or lengthened by DST count their real length.
func DayProgress(zone string, now time.Time) (float64, error) {
	local, err := LocalTime(zone, now)
	if err != nil {
		return 0, err
	}
	midnight := StartOfDay(local)
	next := midnight.AddDate(0, 0, 1)
	return float64(local.Sub(midnight)) / float64(next.Sub(midnight)) * 100, nil
}

// OffsetLabel formats zone's current UTC offset, e.g. "UTC+05:30"
func OffsetLabel(zone string, now time.Time) (string, error) {
	local, err := LocalTime(zone, now)
	if err != nil {
		return "", err
	}
	_, offset := local.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60), nil
}

// WorkingHours reports whether it is a weekday between WorkdayStartHour and
// WorkdayEndHour in zone
func WorkingHours(zone string, now time.Time) (bool, error) {
	local, err := LocalTime(zone, now)
	if err != nil {
		return false, err
	}
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nil
	}
	h := local.Hour()
	return h >= WorkdayStartHour && h < WorkdayEndHour, nil
}

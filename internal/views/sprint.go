package views

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SprintUrgency buckets a sprint by how close its end is
type SprintUrgency string

const (
	UrgencyOverdue  SprintUrgency = "overdue"
	UrgencyCritical SprintUrgency = "critical"
	UrgencyWarning  SprintUrgency = "warning"
	UrgencyCurrent  SprintUrgency = "current"
	UrgencyFuture   SprintUrgency = "future"
	UrgencyNone     SprintUrgency = "none"
)

// DaysRemaining counts calendar days from now's date to end's date, both
// taken in now's location. Negative once the end date has passed.
func DaysRemaining(end, now time.Time) int {
	loc := now.Location()
	ey, em, ed := end.In(loc).Date()
	ny, nm, nd := now.Date()
	a := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// UrgencyForDays maps days remaining onto the urgency buckets
func UrgencyForDays(days int) SprintUrgency {
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 2:
		return UrgencyCritical
	case days <= 6:
		return UrgencyWarning
	case days <= 14:
		return UrgencyCurrent
	default:
		return UrgencyNone
	}
}

// Urgency classifies a sprint. A sprint that has not started is future
// whatever its end date.
func Urgency(start, end, now time.Time) (SprintUrgency, int) {
	days := DaysRemaining(end, now)
	if !start.IsZero() && start.After(now) {
		return UrgencyFuture, days
	}
	return UrgencyForDays(days), days
}

// monthName matches a full month name or its abbreviation, nothing longer
const monthName = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	isoRange   = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})\s*(?:-|–|to)\s*(\d{4})-(\d{1,2})-(\d{1,2})`)
	slashRange = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\s*(?:-|–|to)\s*(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	monthRange = regexp.MustCompile(`(?i)\b` + monthName + `\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?\s*(?:-|–|to)\s*(?:` + monthName + `\.?\s+)?(\d{1,2})(?:,?\s+(\d{4}))?`)
	sprintNum  = regexp.MustCompile(`(?i)sprint\s*#?\s*(\d+)`)
	trailNum   = regexp.MustCompile(`(\d+)\s*$`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseSprintDates extracts a date range from an iteration name or path.
// Recognized: "2025-01-06 - 2025-01-17", "01/06 - 01/17[/2025]" and
// "Jan 6 - Jan 17[, 2025]" (the end month may be omitted). Missing years
// come from ref; a range that wraps past December ends the following year.
// Dates are returned at midnight in ref's location.
func ParseSprintDates(path string, ref time.Time) (start, end time.Time, ok bool) {
	loc := ref.Location()

	if m := isoRange.FindStringSubmatch(path); m != nil {
		start, ok1 := civil(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc)
		end, ok2 := civil(atoi(m[4]), atoi(m[5]), atoi(m[6]), loc)
		if ok1 && ok2 {
			return start, end, true
		}
	}

	if m := monthRange.FindStringSubmatch(path); m != nil {
		sm := monthIndex[strings.ToLower(m[1])[:3]]
		em := sm
		if m[4] != "" {
			em = monthIndex[strings.ToLower(m[4])[:3]]
		}
		if s, e, ok := withYears(int(sm), atoi(m[2]), m[3], int(em), atoi(m[5]), m[6], ref); ok {
			return s, e, true
		}
	}

	if m := slashRange.FindStringSubmatch(path); m != nil {
		if s, e, ok := withYears(atoi(m[1]), atoi(m[2]), m[3], atoi(m[4]), atoi(m[5]), m[6], ref); ok {
			return s, e, true
		}
	}

	return time.Time{}, time.Time{}, false
}

// SprintNumber extracts "Sprint 12" style numbering, falling back to a
// trailing number on the last path segment.
func SprintNumber(path string) (int, bool) {
	if m := sprintNum.FindStringSubmatch(path); m != nil {
		return atoi(m[1]), true
	}
	segment := path
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		segment = path[i+1:]
	}
	if m := trailNum.FindStringSubmatch(segment); m != nil {
		return atoi(m[1]), true
	}
	return 0, false
}

func withYears(sm, sd int, sy string, em, ed int, ey string, ref time.Time) (time.Time, time.Time, bool) {
	loc := ref.Location()
	startYear, endYear := ref.Year(), ref.Year()
	switch {
	case sy != "" && ey != "":
		startYear, endYear = year(sy), year(ey)
	case ey != "":
		endYear = year(ey)
		startYear = endYear
		if sm > em {
			startYear--
		}
	case sy != "":
		startYear = year(sy)
		endYear = startYear
		if sm > em {
			endYear++
		}
	default:
		if sm > em {
			endYear++
		}
	}

	start, ok1 := civil(startYear, sm, sd, loc)
	end, ok2 := civil(endYear, em, ed, loc)
	if !ok1 || !ok2 || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// civil builds a date, rejecting values time.Date would normalize
func civil(y, m, d int, loc *time.Location) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func year(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		y += 2000
	}
	return y
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

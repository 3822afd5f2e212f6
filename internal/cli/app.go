package cli

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dashboard/internal/config"
	"dashboard/internal/dashboard"
	"dashboard/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App bundles what every command handler needs
type App struct {
	dash         *dashboard.Dashboard
	config       *config.Config
	out          io.Writer
	in           io.Reader
	errorHandler *ErrorHandler
}

// NewApp creates a CLI application over a loaded dashboard
func NewApp(dash *dashboard.Dashboard, cfg *config.Config, out io.Writer, in io.Reader) *App {
	return &App{
		dash:         dash,
		config:       cfg,
		out:          out,
		in:           in,
		errorHandler: NewErrorHandler(),
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	var duration time.Duration
	switch matches[2] {
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "w":
		duration = time.Duration(value) * 7 * 24 * time.Hour
	case "mo":
		duration = time.Duration(value) * 30 * 24 * time.Hour
	case "y":
		duration = time.Duration(value) * 365 * 24 * time.Hour
	}
	return duration, nil
}

// parseDue reads a due date as a shorthand offset from now ("2d") or a
// calendar date, which means the end of that day in local time.
func parseDue(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := parseTimeShorthand(s); err == nil {
		due := now.Add(d)
		return &due, nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return nil, errors.NewInvalidInputError("due", s, "use YYYY-MM-DD or a shorthand such as 2d")
	}
	due := day.AddDate(0, 0, 1).Add(-time.Second)
	return &due, nil
}

// formatDuration renders tracked seconds as "1h 05m", or with seconds
func formatDuration(seconds int64, showSeconds bool) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if showSeconds {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// formatDue renders a due date relative to now
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	return humanize.RelTime(*due, now, "ago", "from now")
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

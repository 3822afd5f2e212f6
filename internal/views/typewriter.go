package views

import (
	"fmt"
	"time"
)

// TypewriterFrame returns the prefix of text visible after elapsed when one
// rune appears every perRune.
func TypewriterFrame(text string, elapsed, perRune time.Duration) string {
	if elapsed < 0 {
		return ""
	}
	if perRune <= 0 {
		return text
	}
	runes := []rune(text)
	n := int(elapsed / perRune)
	if n >= len(runes) {
		return text
	}
	return string(runes[:n])
}

// TypewriterDone reports whether the animation has revealed all of text
func TypewriterDone(text string, elapsed, perRune time.Duration) bool {
	return TypewriterFrame(text, elapsed, perRune) == text
}

// Countdown renders the time until resetAt as "1h 05m", "4m 30s" or "12s".
// Past instants render as "now".
func Countdown(resetAt, now time.Time) string {
	d := resetAt.Sub(now)
	if d <= 0 {
		return "now"
	}
	secs := int64((d + time.Second - 1) / time.Second)
	h, m, s := secs/3600, secs%3600/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

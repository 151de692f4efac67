package ui

import (
	"fmt"
	"time"
)

// FormatClock renders a countdown as MM:SS, dropping partial seconds.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int64(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatOffset renders the time since start as "+1m05s".
func FormatOffset(start, at time.Time) string {
	offset := at.Sub(start)
	if offset < 0 {
		offset = 0
	}
	offset = offset.Truncate(time.Second)
	minutes := int64(offset / time.Minute)
	seconds := int64((offset % time.Minute) / time.Second)
	if minutes == 0 {
		return fmt.Sprintf("+%ds", seconds)
	}
	return fmt.Sprintf("+%dm%02ds", minutes, seconds)
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

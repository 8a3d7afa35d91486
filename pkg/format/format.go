// Package format renders phone numbers, business numbers, amounts and
// schedules the way the back-office screens display them.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const scheduleLayout = "2006-01-02 15:04"

// Digits drops everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Phone hyphenates Korean phone numbers:
//
//	01012345678 → 010-1234-5678
//	0212345678  → 02-1234-5678
//	0311234567  → 031-123-4567
//	15881234    → 1588-1234
//
// Input that fits none of these is returned as digits only.
func Phone(s string) string {
	d := Digits(s)
	n := len(d)
	switch {
	case strings.HasPrefix(d, "02") && n == 9:
		return d[:2] + "-" + d[2:5] + "-" + d[5:]
	case strings.HasPrefix(d, "02") && n == 10:
		return d[:2] + "-" + d[2:6] + "-" + d[6:]
	case strings.HasPrefix(d, "0") && n == 11:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	case strings.HasPrefix(d, "0") && n == 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	case n == 8 && (strings.HasPrefix(d, "15") || strings.HasPrefix(d, "16") || strings.HasPrefix(d, "18")):
		return d[:4] + "-" + d[4:]
	}
	return d
}

// BusinessNumber renders a 10-digit business registration number as 123-45-67890.
func BusinessNumber(s string) string {
	d := Digits(s)
	if len(d) != 10 {
		return d
	}
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}

// Amount groups thousands: -50000 → "-50,000".
func Amount(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// Schedule renders a pickup/delivery window in loc. A zero end is omitted.
func Schedule(from, to time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if to.IsZero() {
		return from.In(loc).Format(scheduleLayout)
	}
	return from.In(loc).Format(scheduleLayout) + " ~ " + to.In(loc).Format(scheduleLayout)
}

// Duration renders d at minute resolution, e.g. "1d 3h 20m". Sub-minute and
// negative durations render as "0m".
func Duration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	mins := int64(d / time.Minute)
	days := mins / (24 * 60)
	hours := (mins / 60) % 24
	mins %= 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	return strings.Join(parts, " ")
}

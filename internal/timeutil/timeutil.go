// Package timeutil converts between millisecond instants/durations and the
// zero-padded clock text used throughout the timing tables.
//
// All values are plain int64 milliseconds. Instants are milliseconds since
// the Unix epoch; elapsed times are millisecond durations. The textual
// forms are HH:MM:SS (elapsed times, result tables) and HH:MM (scheduled
// start times).
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

var (
	clockRe   = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	elapsedRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
)

// FormatClock renders ms as zero-padded "HH:MM:SS", or "HH:MM" when
// omitSeconds is true. Hours wrap at 24, so durations of a day or more
// fold back onto the clock face. Negative input is clamped to zero.
func FormatClock(ms int64, omitSeconds bool) string {
	if ms < 0 {
		ms = 0
	}
	hours := (ms / msPerHour) % 24
	minutes := (ms / msPerMinute) % 60
	seconds := (ms / msPerSecond) % 60

	if omitSeconds {
		return fmt.Sprintf("%02d:%02d", hours, minutes)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ParseClock parses "HH:MM" into milliseconds since midnight.
func ParseClock(text string) (int64, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", text)
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	return hours*msPerHour + minutes*msPerMinute, nil
}

// ParseElapsed parses "HH:MM:SS" into a millisecond duration. Used for
// manually entered elapsed times.
func ParseElapsed(text string) (int64, error) {
	m := elapsedRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, fmt.Errorf("invalid elapsed time %q: want HH:MM:SS", text)
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	return hours*msPerHour + minutes*msPerMinute + seconds*msPerSecond, nil
}

// AverageKmh returns the average speed in km/h for a distance in meters
// covered in elapsedMs, rounded to two decimals. Returns 0 when elapsedMs
// is not positive.
func AverageKmh(elapsedMs int64, distanceMeters float64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	kmh := (distanceMeters / 1000) / (float64(elapsedMs) / float64(msPerHour))
	return math.Round(kmh*100) / 100
}

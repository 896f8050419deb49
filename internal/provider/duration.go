package provider

import (
	"regexp"
	"strconv"
)

var isoDurationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts the "PT#H#M#S" subset of ISO 8601 durations
// into seconds. Anything outside that subset yields 0.
func ParseISODuration(s string) int {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])
	return hours*3600 + minutes*60 + seconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

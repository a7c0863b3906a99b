// Package hours evaluates crawled opening-hours strings such as
// "06:00-14:00 | 17:00-22:00". The data comes from scraped listings, so
// malformed ranges are skipped rather than rejected.
package hours

import (
	"strconv"
	"strings"
	"time"
)

// IsOpen reports whether now falls inside any range of spec. Ranges are
// separated by "|", "," or ";" and written as "HH:MM-HH:MM". A range whose
// start is later than its end spans midnight. An empty spec is closed.
func IsOpen(spec string, now time.Time) bool {
	if strings.TrimSpace(spec) == "" {
		return false
	}

	current := now.Hour()*60 + now.Minute()

	for _, r := range strings.FieldsFunc(spec, isSeparator) {
		parts := strings.Split(r, "-")
		if len(parts) != 2 {
			continue
		}
		start, ok := toMinutes(parts[0])
		if !ok {
			continue
		}
		end, ok := toMinutes(parts[1])
		if !ok {
			continue
		}

		if start <= end {
			if current >= start && current <= end {
				return true
			}
		} else {
			// Overnight range, e.g. 22:00-06:00
			if current >= start || current <= end {
				return true
			}
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '|' || r == ',' || r == ';'
}

func toMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

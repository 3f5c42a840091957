package scoring

import (
	"strings"
	"time"
)

type dayPart struct {
	prefix   string
	from, to int
}

// Named day-parts as offered on the volunteer form, e.g. "Morning (6AM-12PM)".
var dayParts = [...]dayPart{
	{prefix: "morning", from: 6, to: 12},
	{prefix: "afternoon", from: 12, to: 17},
	{prefix: "evening", from: 17, to: 22},
}

// AvailableAt reports whether any declared slot covers t.
// A transporter with no declared slots is always available.
func AvailableAt(slots []string, t time.Time) bool {
	if len(slots) == 0 {
		return true
	}
	weekend := t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	hour := t.Hour()
	for _, raw := range slots {
		slot := strings.ToLower(strings.TrimSpace(raw))
		if strings.HasPrefix(slot, "weekend") {
			if weekend {
				return true
			}
			continue
		}
		for _, p := range dayParts {
			if strings.HasPrefix(slot, p.prefix) && hour >= p.from && hour < p.to {
				return true
			}
		}
	}
	return false
}

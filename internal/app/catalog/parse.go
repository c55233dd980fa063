package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// ParseEnrollment converts a seat count straight off the wire into an
// int. The registrar serves counts as numbers in some responses and as
// decimal strings in others; anything else (absent, empty, junk) comes
// back as models.CountUnknown so derivations can tell "zero seats" from
// "not reported".
func ParseEnrollment(raw interface{}) int {
	switch v := raw.(type) {
	case nil:
		return models.CountUnknown
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
		return models.CountUnknown
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return models.CountUnknown
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return models.CountUnknown
	default:
		return models.CountUnknown
	}
}

// ParseClockTime canonicalizes a meeting time into lexical 24-hour
// "HH:MM" form. Accepted inputs: the registrar's "HH.MM.SS.micros"
// dotted form, plain "HH:MM" or "HH:MM:SS", and "h:mm AM/PM". Empty,
// "TBA" and unparseable values all map to models.TimeTBA; a real
// midnight stays "00:00" and never collides with the unscheduled case.
func ParseClockTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, models.TimeTBA) {
		return models.TimeTBA
	}

	// Dotted registrar form: 14.00.00.000000
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) >= 2 {
			if hour, min, ok := clockParts(parts[0], parts[1]); ok {
				return fmt.Sprintf("%02d:%02d", hour, min)
			}
		}
		return models.TimeTBA
	}

	// Meridiem form: 2:00 PM, 9:30am
	upper := strings.ToUpper(s)
	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		upper = strings.TrimSpace(strings.TrimSuffix(upper, meridiem))
		parts := strings.Split(upper, ":")
		if len(parts) < 2 {
			return models.TimeTBA
		}
		hour, min, ok := clockParts(parts[0], parts[1])
		if !ok || hour < 1 || hour > 12 {
			return models.TimeTBA
		}
		if meridiem == "PM" && hour != 12 {
			hour += 12
		}
		if meridiem == "AM" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, min)
	}

	// Plain colon form: 14:00 or 14:00:00
	parts := strings.Split(s, ":")
	if len(parts) >= 2 {
		if hour, min, ok := clockParts(parts[0], parts[1]); ok {
			return fmt.Sprintf("%02d:%02d", hour, min)
		}
	}

	return models.TimeTBA
}

func clockParts(hourStr, minStr string) (int, int, bool) {
	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	min, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil || min < 0 || min > 59 {
		return 0, 0, false
	}
	return hour, min, true
}

// dayTokens is the canonical two-letter day alphabet, in week order.
var dayTokens = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// ParseMeetingDays splits a packed day string like "MoWeFr" into its
// canonical two-letter tokens. Case is forgiven; unknown fragments are
// dropped. Empty and "TBA" inputs yield nil.
func ParseMeetingDays(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, models.TimeTBA) {
		return nil
	}

	var days []string
	for i := 0; i+1 < len(s); {
		matched := false
		for _, token := range dayTokens {
			if strings.EqualFold(s[i:i+2], token) {
				days = append(days, token)
				i += 2
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return days
}

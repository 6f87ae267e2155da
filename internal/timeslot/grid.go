package timeslot

import (
	"fmt"
	"strings"
	"time"

	"github.com/counselbook/reserve/internal/apperr"
)

// SlotDuration is the fixed length of every bookable slot.
const SlotDuration = 30 * time.Minute

// KST is the fixed local zone used to interpret naive date-times and to
// render all times on the wire.
var KST = time.FixedZone("KST", 9*60*60)

const localLayout = "2006-01-02T15:04:05+09:00"

// layouts tried for input without an explicit offset, interpreted as KST.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseLocal parses a date-time string. Input carrying an explicit offset is
// honored as-is; naive input is interpreted in KST.
func ParseLocal(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, apperr.Invalid("date-time is required")
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, KST); err == nil {
			return t, nil
		}
	}

	return time.Time{}, apperr.Invalid(fmt.Sprintf("invalid date format: %s", s))
}

// ComputeEnd returns the slot end derived from its start.
func ComputeEnd(start time.Time) time.Time {
	return start.Add(SlotDuration)
}

// ValidateSlotSpan checks that [start, end) is a well-formed 30-minute slot
// aligned to the :00/:30 grid.
func ValidateSlotSpan(start, end time.Time) error {
	if !end.After(start) {
		return apperr.Invalid("endAt must be after startAt")
	}
	if end.Sub(start) != SlotDuration {
		return apperr.Invalid("slot must be exactly 30 minutes long")
	}
	if !isGridAligned(start) {
		return apperr.Invalid("startAt must fall on a 30-minute boundary (e.g. 09:00, 09:30)")
	}
	if !isGridAligned(end) {
		return apperr.Invalid("endAt must fall on a 30-minute boundary")
	}
	return nil
}

// isGridAligned reports whether t sits exactly on a :00 or :30 boundary.
// KST is a whole-hour offset, so alignment is checked in UTC.
func isGridAligned(t time.Time) bool {
	u := t.UTC()
	return (u.Minute() == 0 || u.Minute() == 30) && u.Second() == 0 && u.Nanosecond() == 0
}

// FormatLocal renders t as an ISO-8601 string with the explicit +09:00 offset.
func FormatLocal(t time.Time) string {
	return t.In(KST).Format(localLayout)
}

// DayBounds returns the KST [start, end) instants of the calendar date given
// as YYYY-MM-DD.
func DayBounds(date string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), KST)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid(fmt.Sprintf("invalid date filter: %s", date))
	}
	return d, d.AddDate(0, 0, 1), nil
}

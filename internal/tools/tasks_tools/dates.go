package tasks_tools

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDueDate converts a user supplied date to epoch milliseconds. hasTime
// is false for plain dates so ClickUp shows them without a time of day.
func parseDueDate(value string) (ms int64, hasTime bool, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, fmt.Errorf("date cannot be empty")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UnixMilli(), true, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UnixMilli(), false, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
		return n, true, nil
	}
	return 0, false, fmt.Errorf("invalid date %q: use RFC3339, YYYY-MM-DD, or epoch milliseconds", value)
}

func validPriority(p int) error {
	if p < 1 || p > 4 {
		return fmt.Errorf("priority must be between 1 (urgent) and 4 (low), got %d", p)
	}
	return nil
}

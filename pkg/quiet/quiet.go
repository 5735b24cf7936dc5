// Package quiet decides whether a moment falls inside a recipient's
// quiet-hours window. Pure functions only; callers inject the clock.
package quiet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
)

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// InWindow reports whether now falls inside the window, evaluated in the
// recipient's timezone. The end minute is exclusive. A window whose start is
// at or after its end wraps midnight (22:00-08:00). Malformed windows or
// unknown timezones never suppress.
func InWindow(q models.QuietHours, timezone string, now time.Time) bool {
	if !q.Enabled {
		return false
	}
	start, err := ParseClock(q.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(q.End)
	if err != nil {
		return false
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	minutes := local.Hour()*60 + local.Minute()

	if start < end {
		return minutes >= start && minutes < end
	}
	return minutes >= start || minutes < end
}

package estimate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InterpretScheduleTime produces the absolute instant a gtfs style "HH:MM:SS"
// schedule time string most plausibly denotes in the current service day.
// Hours may run past 24 to denote continuation of the previous evening's
// service day, up to hour 47.
//
// The wall clock time is placed on "today" computed in the schedule's civil
// time zone loc, never the server's zone. Two rollover windows resolve the
// day boundary ambiguity of late night times:
//   - now at or after 6pm and a raw hour in [24,30): the time belongs to
//     tomorrow's calendar date
//   - now before 6am and a raw hour in [18,24): the time belongs to
//     yesterday's calendar date
//
// Outside both windows the naive same day interpretation is used.
func InterpretScheduleTime(value string, now time.Time, loc *time.Location) (time.Time, error) {
	pieces := strings.Split(value, ":")
	if len(pieces) != 3 {
		return time.Time{}, fmt.Errorf("schedule time %q is not in HH:MM:SS format", value)
	}
	numbers := make([]int, 3)
	for i, piece := range pieces {
		number, err := strconv.Atoi(strings.TrimSpace(piece))
		if err != nil {
			return time.Time{}, fmt.Errorf("schedule time %q has non numeric component %q", value, piece)
		}
		numbers[i] = number
	}
	hour, minute, second := numbers[0], numbers[1], numbers[2]

	localNow := now.In(loc)
	result := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		hour%24, minute, second, 0, loc)

	// note both windows test the raw un-mod hour
	if localNow.Hour() >= 18 && hour >= 24 && hour < 30 {
		result = result.AddDate(0, 0, 1)
	}
	if localNow.Hour() < 6 && hour >= 18 && hour < 24 {
		result = result.AddDate(0, 0, -1)
	}

	return result, nil
}

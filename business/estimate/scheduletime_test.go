package estimate

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestInterpretScheduleTime(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	tests := []struct {
		name string
		give string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid day, same day",
			give: "14:30:00",
			now:  time.Date(2022, 5, 10, 12, 0, 0, 0, location),
			want: time.Date(2022, 5, 10, 14, 30, 0, 0, location),
		},
		{
			name: "just before midnight, minutes ahead stays on today",
			give: "23:59:59",
			now:  time.Date(2022, 5, 10, 23, 55, 55, 0, location),
			want: time.Date(2022, 5, 10, 23, 59, 59, 0, location),
		},
		{
			name: "late evening looking at a past midnight departure",
			give: "25:10:00",
			now:  time.Date(2022, 5, 10, 23, 50, 0, 0, location),
			want: time.Date(2022, 5, 11, 1, 10, 0, 0, location),
		},
		{
			name: "raw hour under 24 never shifts forward",
			give: "00:10:00",
			now:  time.Date(2022, 5, 10, 23, 50, 0, 0, location),
			want: time.Date(2022, 5, 10, 0, 10, 0, 0, location),
		},
		{
			name: "just after midnight looking back at a late evening departure",
			give: "23:50:00",
			now:  time.Date(2022, 5, 11, 0, 5, 0, 0, location),
			want: time.Date(2022, 5, 10, 23, 50, 0, 0, location),
		},
		{
			name: "early evening departure seen early evening, no shift",
			give: "18:30:00",
			now:  time.Date(2022, 5, 10, 19, 0, 0, 0, location),
			want: time.Date(2022, 5, 10, 18, 30, 0, 0, location),
		},
		{
			name: "past midnight hour seen mid day, no shift",
			give: "24:15:00",
			now:  time.Date(2022, 5, 10, 12, 0, 0, 0, location),
			want: time.Date(2022, 5, 10, 0, 15, 0, 0, location),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := InterpretScheduleTime(tt.give, tt.now, location)
			is.NoErr(err)
			is.True(got.Equal(tt.want))
		})
	}
}

func TestInterpretScheduleTime_isStable(t *testing.T) {
	is := is.New(t)
	location, err := time.LoadLocation("America/New_York")
	is.NoErr(err)
	now := time.Date(2022, 5, 10, 23, 55, 0, 0, location)

	first, err := InterpretScheduleTime("25:10:00", now, location)
	is.NoErr(err)
	second, err := InterpretScheduleTime("25:10:00", now, location)
	is.NoErr(err)
	is.True(first.Equal(second))
}

func TestInterpretScheduleTime_usesScheduleZone(t *testing.T) {
	is := is.New(t)
	scheduleZone, err := time.LoadLocation("America/New_York")
	is.NoErr(err)

	// server clock in utc, 2022-05-11 03:00 utc is still 2022-05-10 11pm eastern
	now := time.Date(2022, 5, 11, 3, 0, 0, 0, time.UTC)

	got, err := InterpretScheduleTime("22:45:00", now, scheduleZone)
	is.NoErr(err)
	is.True(got.Equal(time.Date(2022, 5, 10, 22, 45, 0, 0, scheduleZone)))
}

func TestInterpretScheduleTime_errors(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	now := time.Date(2022, 5, 10, 12, 0, 0, 0, location)
	tests := []struct {
		name string
		give string
	}{
		{name: "two components", give: "08:00"},
		{name: "four components", give: "08:00:00:00"},
		{name: "empty string", give: ""},
		{name: "non numeric hour", give: "aa:00:00"},
		{name: "non numeric second", give: "08:00:xx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InterpretScheduleTime(tt.give, now, location)
			if err == nil {
				t.Errorf("InterpretScheduleTime(%q) expected parse error, got none", tt.give)
			}
		})
	}
}

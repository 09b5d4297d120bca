package schedule

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestServiceCalendar_ServiceIdFor(t *testing.T) {
	serviceCalendar := MakeServiceCalendar()
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "tuesday runs weekday service",
			at:   time.Date(2022, 5, 10, 9, 0, 0, 0, time.UTC),
			want: "1",
		},
		{
			name: "friday runs weekday service",
			at:   time.Date(2022, 5, 13, 9, 0, 0, 0, time.UTC),
			want: "1",
		},
		{
			name: "saturday service",
			at:   time.Date(2022, 5, 14, 9, 0, 0, 0, time.UTC),
			want: "5",
		},
		{
			name: "sunday service",
			at:   time.Date(2022, 5, 15, 9, 0, 0, 0, time.UTC),
			want: "7",
		},
		{
			name: "independence day runs sunday service",
			at:   time.Date(2022, 7, 4, 9, 0, 0, 0, time.UTC),
			want: "7",
		},
		{
			name: "memorial day runs sunday service",
			at:   time.Date(2022, 5, 30, 9, 0, 0, 0, time.UTC),
			want: "7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(tt.want, serviceCalendar.ServiceIdFor(tt.at))
		})
	}
}

package schedule

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// defaultWeekdayServiceIds maps time.Weekday (Sunday first) to the service id
// the agency runs on that day
var defaultWeekdayServiceIds = [7]string{"7", "1", "1", "1", "1", "1", "5"}

// ServiceCalendar selects which service id is active on a calendar date.
// Observed holidays run Sunday service.
type ServiceCalendar struct {
	holidays          *cal.BusinessCalendar
	weekdayServiceIds [7]string
}

// MakeServiceCalendar builds a ServiceCalendar with the default weekday
// service ids and observed US holidays.
// TODO:: should be customizable by transit agency rather than being hardcoded as it is now.
func MakeServiceCalendar() *ServiceCalendar {
	holidays := cal.NewBusinessCalendar()
	holidays.AddHoliday(
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return &ServiceCalendar{
		holidays:          holidays,
		weekdayServiceIds: defaultWeekdayServiceIds,
	}
}

// ServiceIdFor returns the service id active on the calendar date of at
func (s *ServiceCalendar) ServiceIdFor(at time.Time) string {
	if s.isHoliday(at) {
		return s.weekdayServiceIds[time.Sunday]
	}
	return s.weekdayServiceIds[at.Weekday()]
}

// isHoliday returns true if at is on a holiday observed by the transit agency
func (s *ServiceCalendar) isHoliday(at time.Time) bool {
	_, observed, _ := s.holidays.IsHoliday(at)
	return observed
}

package pricing

import (
	"time"

	"guesthouse/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// Calendar resolves whether a night counts as a holiday. Explicit per-date
// overrides win over the default weekday rule. The caller fetches overrides
// and the weekday rule once per quote and passes them in, so the engine
// itself holds no process-wide state.
type Calendar struct {
	overrides       map[string]bool
	holidayWeekdays map[time.Weekday]bool
}

func NewCalendar(overrides []domain.Holiday, holidayWeekdays []time.Weekday) Calendar {
	ov := make(map[string]bool, len(overrides))
	for _, h := range overrides {
		ov[h.Date.Format(dateKeyLayout)] = h.IsHoliday
	}
	wd := make(map[time.Weekday]bool, len(holidayWeekdays))
	for _, d := range holidayWeekdays {
		wd[d] = true
	}
	return Calendar{overrides: ov, holidayWeekdays: wd}
}

func (c Calendar) IsHoliday(night time.Time) bool {
	if v, ok := c.overrides[night.Format(dateKeyLayout)]; ok {
		return v
	}
	return c.holidayWeekdays[night.Weekday()]
}

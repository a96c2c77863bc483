package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-assistant/internal/config"
)

// WeekendPolicy moves a natural congratulation date onto a delivery day.
// Shift reports whether the returned date differs from the input.
type WeekendPolicy interface {
	Shift(date time.Time) (time.Time, bool)
}

// MondayShift moves Saturday and Sunday forward to the following Monday.
type MondayShift struct{}

// Shift implements WeekendPolicy.
func (MondayShift) Shift(date time.Time) (time.Time, bool) {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, 2), true
	case time.Sunday:
		return date.AddDate(0, 0, 1), true
	default:
		return date, false
	}
}

// NoShift keeps every date as is.
type NoShift struct{}

// Shift implements WeekendPolicy.
func (NoShift) Shift(date time.Time) (time.Time, bool) { return date, false }

// HolidayCalendar applies Base, then keeps stepping forward one day while the
// result is a recurring holiday, re-applying Base after each step.
type HolidayCalendar struct {
	Base     WeekendPolicy
	holidays map[monthDay]struct{}
}

// NewHolidayCalendar builds a calendar from "DD.MM" entries. A nil base means MondayShift.
func NewHolidayCalendar(base WeekendPolicy, holidays []string) (*HolidayCalendar, error) {
	if base == nil {
		base = MondayShift{}
	}
	hc := &HolidayCalendar{Base: base, holidays: make(map[monthDay]struct{}, len(holidays))}
	for _, h := range holidays {
		t, err := time.Parse(config.HolidayLayout, strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", config.ErrHolidayParse, h, err)
		}
		hc.holidays[keyOf(t)] = struct{}{}
	}
	return hc, nil
}

// Shift implements WeekendPolicy.
func (h *HolidayCalendar) Shift(date time.Time) (time.Time, bool) {
	d := date
	for range config.MaxHolidayShiftDays {
		shifted, _ := h.Base.Shift(d)
		if _, holiday := h.holidays[keyOf(shifted)]; !holiday {
			return shifted, !shifted.Equal(date)
		}
		d = shifted.AddDate(0, 0, 1)
	}
	// Out of steps: give up on holidays but still avoid the weekend.
	final, _ := h.Base.Shift(d)
	return final, !final.Equal(date)
}

// PolicyFor maps a settings value onto a policy.
func PolicyFor(name string, holidays []string) (WeekendPolicy, error) {
	switch name {
	case "", config.PolicyMonday:
		return MondayShift{}, nil
	case config.PolicyNone:
		return NoShift{}, nil
	case config.PolicyHolidays:
		return NewHolidayCalendar(MondayShift{}, holidays)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrPolicyUnknown, name)
	}
}

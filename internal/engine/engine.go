// Package engine computes congratulation schedules from contact birthdays.
//
// A Scheduler maps each birthday onto a rolling window of calendar dates,
// moves weekend dates with a WeekendPolicy and orders the result by date
// then name. It can also render a schedule as an iCalendar feed.
package engine

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/domain"
)

// Subject is what the scheduler needs from a contact.
// BirthdayValue may return any shape domain.NormalizeBirthday accepts, or nil.
type Subject interface {
	Name() string
	Phones() []domain.Phone
	Emails() []domain.Email
	BirthdayValue() any
}

// Scheduler is stateless apart from its configuration; every call works on the
// snapshot it is given.
type Scheduler struct {
	Clock  domain.Clock
	Policy WeekendPolicy

	// ReminderTrigger is an ISO 8601 duration (e.g. "-P1D") for the VALARM
	// attached to calendar events. Empty disables alarms.
	ReminderTrigger string

	// FormatSummary lets the UI inject a localized event title.
	FormatSummary func(name string, age int) string
}

// New returns a scheduler with the Monday shift policy.
func New(clock domain.Clock) *Scheduler {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Scheduler{Clock: clock, Policy: MondayShift{}}
}

type monthDay struct {
	month time.Month
	day   int
}

func keyOf(t time.Time) monthDay {
	return monthDay{month: t.Month(), day: t.Day()}
}

// FindNear returns the congratulations falling between today and today+days
// inclusive. Negative days is an invalid argument.
func (s *Scheduler) FindNear(subjects []Subject, days int) ([]Congratulation, error) {
	if days < 0 {
		return nil, domain.NewInvalidArgumentError(config.ArgDays, config.ErrDaysNegative)
	}

	today := domain.CivilDate(s.Clock.Now())

	// A window longer than a year keeps the latest occurrence, so only its
	// tail can contribute.
	end := min(days, config.MaxWindowDays)
	start := max(0, end-config.WindowTailDays)
	window := make(map[monthDay]time.Time, min(end-start+1, config.DaysPerLeapYear))
	for i := start; ; i++ {
		d := today.AddDate(0, 0, i)
		window[keyOf(d)] = d
		if i == end {
			break
		}
	}
	return s.schedule(subjects, window), nil
}

// FindDate returns everyone born on target's month and day, in any year.
// target accepts the same shapes as domain.NormalizeBirthday.
func (s *Scheduler) FindDate(subjects []Subject, target any) ([]Congratulation, error) {
	t, err := domain.NormalizeBirthday(target)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInvalidArgument, Field: config.ArgDate, Message: config.ErrDateParse, Err: err}
	}
	return s.schedule(subjects, map[monthDay]time.Time{keyOf(t): t}), nil
}

func (s *Scheduler) schedule(subjects []Subject, window map[monthDay]time.Time) []Congratulation {
	policy := s.Policy
	if policy == nil {
		policy = MondayShift{}
	}

	var (
		out     []Congratulation
		skipped int
	)
	for _, sub := range subjects {
		raw := sub.BirthdayValue()
		if raw == nil {
			continue
		}
		birth, err := domain.NormalizeBirthday(raw)
		if err != nil {
			skipped++
			slog.Debug(config.MsgSkippedBirthday,
				config.LogKeyComponent, config.CompScheduler,
				config.LogKeyName, sub.Name(),
				config.LogKeyError, err)
			continue
		}
		natural, ok := window[keyOf(birth)]
		if !ok {
			continue
		}
		date, shifted := policy.Shift(natural)
		out = append(out, Congratulation{
			Date:        date,
			NaturalDate: natural,
			Birth:       birth,
			Shifted:     shifted,
			Subject:     sub,
		})
	}

	slices.SortStableFunc(out, compareCongratulations)

	slog.Debug(config.MsgScheduleBuilt,
		config.LogKeyComponent, config.CompScheduler,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(subjects)),
			slog.Int(config.LogKeyFound, len(out)),
			slog.Int(config.LogKeySkipped, skipped),
		),
	)
	return out
}

func compareCongratulations(a, b Congratulation) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.Subject.Name()), strings.ToLower(b.Subject.Name()))
}

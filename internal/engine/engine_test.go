package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/directory"
	"github.com/tartampluch/go-assistant/internal/domain"
	"github.com/tartampluch/go-assistant/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// stubSubject carries an arbitrary birthday value, including malformed ones.
type stubSubject struct {
	name     string
	phones   []domain.Phone
	birthday any
}

func (s stubSubject) Name() string           { return s.name }
func (s stubSubject) Phones() []domain.Phone { return s.phones }
func (s stubSubject) Emails() []domain.Email { return nil }
func (s stubSubject) BirthdayValue() any     { return s.birthday }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func schedulerAt(now time.Time) *engine.Scheduler {
	return engine.New(MockClock{CurrentTime: now})
}

func names(cs []engine.Congratulation) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.Subject.Name())
	}
	return out
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestFindNear_SaturdayShiftsToMonday(t *testing.T) {
	// 2024-06-15 is a Saturday.
	s := schedulerAt(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	subjects := []engine.Subject{stubSubject{name: "Sam", birthday: "15.06.1994"}}

	got, err := s.FindNear(subjects, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0].Entry()
	assert.Equal(t, "17.06.2024", e.Date)
	assert.Equal(t, "Monday", e.Weekday)
	assert.True(t, e.IsShifted)
	assert.Equal(t, "Saturday", e.ShiftReason)
	assert.Equal(t, "15.06.2024", e.ActualDate)
	assert.Equal(t, "Saturday", e.ActualWeekday)
	assert.Equal(t, 30, e.Age)
	assert.True(t, e.IsJubilee)
	assert.True(t, e.IsBigJubilee)
}

func TestFindNear_SundayShiftsOneDay(t *testing.T) {
	s := schedulerAt(date(2024, 6, 10))
	got, err := s.FindNear([]engine.Subject{stubSubject{name: "Sue", birthday: "2001-06-16"}}, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 6, 17), got[0].Date)
	assert.Equal(t, "Sunday", got[0].Entry().ShiftReason)
}

func TestFindNear_TodayOnly(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := directory.NewService(directory.New(), domain.FixedClock{Time: now})
	_, err := svc.Add(directory.ContactInput{Name: "Carol", Birthday: "01.01.1990"})
	require.NoError(t, err)

	got, err := schedulerAt(now).FindNear(engine.Subjects(svc.Directory().All()), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0].Entry()
	assert.Equal(t, "Carol", e.Name)
	assert.Equal(t, "01.01.2025", e.Date)
	assert.False(t, e.IsShifted)
	assert.Empty(t, e.ShiftReason)
	assert.Equal(t, 35, e.Age)
	assert.True(t, e.IsJubilee)
	assert.False(t, e.IsBigJubilee)
}

func TestFindNear_NegativeDays(t *testing.T) {
	_, err := schedulerAt(date(2024, 6, 10)).FindNear(nil, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFindNear_WindowBoundsAndNoWeekends(t *testing.T) {
	now := date(2024, 1, 1)
	var subjects []engine.Subject
	for d := date(1990, 1, 1); d.Year() == 1990; d = d.AddDate(0, 0, 1) {
		subjects = append(subjects, stubSubject{name: d.Format("p-0102"), birthday: d})
	}

	for _, days := range []int{0, 1, 6, 30, 90, 365} {
		got, err := schedulerAt(now).FindNear(subjects, days)
		require.NoError(t, err)

		upper := now.AddDate(0, 0, days+2)
		for _, c := range got {
			assert.False(t, c.Date.Before(now), "days=%d %v", days, c.Date)
			assert.False(t, c.Date.After(upper), "days=%d %v", days, c.Date)
			assert.False(t, c.NaturalDate.After(now.AddDate(0, 0, days)))
			assert.NotEqual(t, time.Saturday, c.Date.Weekday())
			assert.NotEqual(t, time.Sunday, c.Date.Weekday())
		}
	}
}

func TestFindNear_Ordering(t *testing.T) {
	// Saturday 15th and Sunday 16th both land on Monday 17th.
	s := schedulerAt(date(2024, 6, 14))
	subjects := []engine.Subject{
		stubSubject{name: "zoe", birthday: "16.06.2000"},
		stubSubject{name: "Adam", birthday: "17.06.2000"},
		stubSubject{name: "bella", birthday: "15.06.2000"},
		stubSubject{name: "Fred", birthday: "14.06.2000"},
	}
	got, err := s.FindNear(subjects, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fred", "Adam", "bella", "zoe"}, names(got))
}

func TestFindNear_SkipsMalformedBirthdays(t *testing.T) {
	s := schedulerAt(date(2024, 6, 10))
	subjects := []engine.Subject{
		stubSubject{name: "Broken", birthday: "31/31/1990"},
		stubSubject{name: "Odd", birthday: 12345},
		stubSubject{name: "None"},
		stubSubject{name: "Ok", birthday: map[string]any{"value": "1990-06-11"}},
	}
	got, err := s.FindNear(subjects, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ok"}, names(got))
}

func TestFindNear_LeapDay(t *testing.T) {
	subjects := []engine.Subject{stubSubject{name: "Leo", birthday: "29.02.2000"}}

	got, err := schedulerAt(date(2025, 2, 25)).FindNear(subjects, 10)
	require.NoError(t, err)
	assert.Empty(t, got, "no Feb 29 in 2025")

	got, err = schedulerAt(date(2028, 2, 25)).FindNear(subjects, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2028, 2, 29), got[0].Date)
}

func TestFindDate_IgnoresYear(t *testing.T) {
	s := schedulerAt(date(2024, 6, 10))
	subjects := []engine.Subject{
		stubSubject{name: "A", birthday: "1980-03-08"},
		stubSubject{name: "B", birthday: "2010.03.08"},
		stubSubject{name: "C", birthday: "09.03.1980"},
	}
	// 2025-03-08 is a Saturday.
	got, err := s.FindDate(subjects, "08.03.2025")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(got))
	assert.Equal(t, date(2025, 3, 10), got[0].Date)

	_, err = s.FindDate(subjects, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestEntry_FirstContact(t *testing.T) {
	p1, _ := domain.NewPhone("0501111111")
	p2, _ := domain.NewPhone("0502222222")
	s := schedulerAt(date(2024, 6, 10))
	got, err := s.FindNear([]engine.Subject{stubSubject{name: "P", phones: []domain.Phone{p1, p2}, birthday: "1999-06-10"}}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0].Entry()
	assert.Equal(t, "380501111111", e.Phone)
	assert.Equal(t, []string{"380501111111", "380502222222"}, e.Phones)
	assert.Empty(t, e.Email)
	assert.Equal(t, 25, e.Age)
	assert.True(t, e.IsJubilee)
	assert.False(t, e.IsBigJubilee)
}

func TestEntry_BirthYearIsNotAJubilee(t *testing.T) {
	s := schedulerAt(date(2024, 6, 10))
	got, err := s.FindNear([]engine.Subject{stubSubject{name: "Baby", birthday: date(2024, 6, 10)}}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	e := got[0].Entry()
	assert.Equal(t, 0, e.Age)
	assert.False(t, e.IsJubilee)
	assert.False(t, e.IsBigJubilee)
}

func TestNoShiftPolicy(t *testing.T) {
	s := schedulerAt(date(2024, 6, 10))
	s.Policy = engine.NoShift{}
	got, err := s.FindNear([]engine.Subject{stubSubject{name: "Sam", birthday: "15.06.1994"}}, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 6, 15), got[0].Date)
	assert.False(t, got[0].Shifted)
}

func TestCalendar(t *testing.T) {
	s := schedulerAt(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	s.ReminderTrigger = "-P1D"
	s.FormatSummary = func(name string, age int) string { return name + " turns " + "30" }

	got, err := s.FindNear([]engine.Subject{stubSubject{name: "Sam", birthday: "15.06.1994"}}, 7)
	require.NoError(t, err)

	ics, err := s.Calendar(got)
	require.NoError(t, err)
	out := string(ics)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240617")
	assert.Contains(t, out, "SUMMARY:Sam turns 30")
	assert.Contains(t, out, "BEGIN:VALARM")
	assert.Contains(t, out, "TRIGGER:-P1D")

	again, err := s.Calendar(got)
	require.NoError(t, err)
	assert.Equal(t, uidLine(out), uidLine(string(again)), "UIDs are deterministic")
}

func TestCalendar_Empty(t *testing.T) {
	ics, err := schedulerAt(date(2024, 6, 10)).Calendar(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ics), "BEGIN:VCALENDAR"))
	assert.NotContains(t, string(ics), "VEVENT")
}

func uidLine(ics string) string {
	for _, l := range strings.Split(ics, "\r\n") {
		if strings.HasPrefix(l, "UID:") {
			return l
		}
	}
	return ""
}

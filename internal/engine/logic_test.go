package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/domain"
)

type stubRecord struct {
	name     string
	birthday any
}

func (s stubRecord) Name() string           { return s.name }
func (s stubRecord) Phones() []domain.Phone { return nil }
func (s stubRecord) Emails() []domain.Email { return nil }
func (s stubRecord) BirthdayValue() any     { return s.birthday }

// TestMondayShift covers every weekday of one week.
func TestMondayShift(t *testing.T) {
	// 2024-06-10 is a Monday.
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		offset      int
		wantOffset  int
		wantShifted bool
	}{
		{0, 0, false},
		{1, 1, false},
		{2, 2, false},
		{3, 3, false},
		{4, 4, false},
		{5, 7, true}, // Saturday -> Monday
		{6, 7, true}, // Sunday -> Monday
	}

	for _, tt := range tests {
		in := monday.AddDate(0, 0, tt.offset)
		t.Run(in.Weekday().String(), func(t *testing.T) {
			got, shifted := MondayShift{}.Shift(in)
			assert.Equal(t, monday.AddDate(0, 0, tt.wantOffset), got)
			assert.Equal(t, tt.wantShifted, shifted)
		})
	}
}

func TestHolidayCalendar(t *testing.T) {
	hc, err := NewHolidayCalendar(nil, []string{"24.08", "25.08", " 01.01 "})
	require.NoError(t, err)

	// 2024-08-24 is a Saturday: weekend -> Mon 26th (not a holiday).
	got, shifted := hc.Shift(time.Date(2024, 8, 24, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, shifted)

	// 2025-08-24 is a Sunday -> Mon 25th is a holiday -> Tue 26th.
	got, shifted = hc.Shift(time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, shifted)

	// 2027-01-01 is a Friday holiday -> Sat -> Mon 4th.
	got, _ = hc.Shift(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC), got)

	// Ordinary weekday.
	got, shifted = hc.Shift(time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC), got)
	assert.False(t, shifted)

	// Every day from 05.07 to 31.08 is a holiday. The step limit runs out on
	// Sat 2024-08-17, which must still move to Monday.
	var summer []string
	for d := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC); d.Month() < time.September; d = d.AddDate(0, 0, 1) {
		summer = append(summer, d.Format("02.01"))
	}
	long, err := NewHolidayCalendar(nil, summer)
	require.NoError(t, err)
	got, shifted = long.Shift(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 8, 19, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.True(t, shifted)

	_, err = NewHolidayCalendar(nil, []string{"32.13"})
	assert.Error(t, err)
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("", nil)
	require.NoError(t, err)
	assert.IsType(t, MondayShift{}, p)

	p, err = PolicyFor("none", nil)
	require.NoError(t, err)
	assert.IsType(t, NoShift{}, p)

	p, err = PolicyFor("holidays", []string{"08.03"})
	require.NoError(t, err)
	assert.IsType(t, &HolidayCalendar{}, p)

	_, err = PolicyFor("lunar", nil)
	assert.Error(t, err)
}

// A window longer than a year keeps the latest date for each month/day.
func TestFindNear_LongWindowKeepsLatest(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	s := New(domain.FixedClock{Time: now})
	got, err := s.FindNear([]Subject{stubRecord{name: "X", birthday: "12.06.1990"}}, 400)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), got[0].NaturalDate)
}

func TestFindNear_HugeHorizon(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	s := New(domain.FixedClock{Time: now})
	subjects := []Subject{
		stubRecord{name: "Ann", birthday: "12.06.1990"},
		stubRecord{name: "Bob", birthday: "01.01.1985"},
		stubRecord{name: "Cid", birthday: "31.12.2000"},
	}

	began := time.Now()
	huge, err := s.FindNear(subjects, math.MaxInt)
	require.NoError(t, err)
	assert.Less(t, time.Since(began), time.Second)

	year, err := s.FindNear(subjects, 400)
	require.NoError(t, err)

	var hugeNames, yearNames []string
	for _, c := range huge {
		hugeNames = append(hugeNames, c.Subject.Name())
		assert.True(t, c.NaturalDate.After(now))
		assert.NotEqual(t, time.Saturday, c.Date.Weekday())
		assert.NotEqual(t, time.Sunday, c.Date.Weekday())
	}
	for _, c := range year {
		yearNames = append(yearNames, c.Subject.Name())
	}
	assert.ElementsMatch(t, yearNames, hugeNames)

	// The scanned tail of a long window always contains a leap day.
	leap, err := s.FindNear([]Subject{stubRecord{name: "Leo", birthday: "29.02.2000"}}, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, leap, 1)
	assert.Equal(t, time.February, leap[0].NaturalDate.Month())
	assert.Equal(t, 29, leap[0].NaturalDate.Day())
}

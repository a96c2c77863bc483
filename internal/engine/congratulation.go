package engine

import (
	"time"

	"github.com/tartampluch/go-assistant/internal/config"
)

// Congratulation is one scheduled greeting. It is derived, never stored.
type Congratulation struct {
	// Date is the delivery date after the weekend policy ran.
	Date time.Time
	// NaturalDate is the birthday's occurrence inside the window.
	NaturalDate time.Time
	// Birth is the normalized date of birth.
	Birth   time.Time
	Shifted bool
	Subject Subject
}

// Age is the number of years turned on the natural date.
func (c Congratulation) Age() int {
	return c.NaturalDate.Year() - c.Birth.Year()
}

// Entry is the display-ready projection of a Congratulation.
type Entry struct {
	Date          string   `json:"date"`
	Weekday       string   `json:"weekday"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phones        []string `json:"phones,omitempty"`
	Emails        []string `json:"emails,omitempty"`
	IsShifted     bool     `json:"is_shifted"`
	ShiftReason   string   `json:"shift_reason,omitempty"`
	ActualDate    string   `json:"actual_date"`
	ActualWeekday string   `json:"actual_weekday"`
	Age           int      `json:"age"`
	IsJubilee     bool     `json:"is_jubilee"`
	IsBigJubilee  bool     `json:"is_big_jubilee"`
}

// Entry projects c for presentation.
func (c Congratulation) Entry() Entry {
	e := Entry{
		Date:          c.Date.Format(config.DateFormatDisplay),
		Weekday:       c.Date.Weekday().String(),
		Name:          c.Subject.Name(),
		IsShifted:     c.Shifted,
		ActualDate:    c.NaturalDate.Format(config.DateFormatDisplay),
		ActualWeekday: c.NaturalDate.Weekday().String(),
		Age:           c.Age(),
	}
	for _, p := range c.Subject.Phones() {
		e.Phones = append(e.Phones, p.String())
	}
	for _, m := range c.Subject.Emails() {
		e.Emails = append(e.Emails, m.String())
	}
	if len(e.Phones) > 0 {
		e.Phone = e.Phones[0]
	}
	if len(e.Emails) > 0 {
		e.Email = e.Emails[0]
	}
	if c.Shifted {
		e.ShiftReason = e.ActualWeekday
	}
	if e.Age > 0 {
		e.IsJubilee = e.Age%config.JubileeStep == 0
		e.IsBigJubilee = e.Age%config.BigJubileeStep == 0
	}
	return e
}

// Project maps a schedule onto display entries, keeping its order.
func Project(cs []Congratulation) []Entry {
	out := make([]Entry, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Entry())
	}
	return out
}

// Subjects widens a typed slice (e.g. []*directory.Record) to []Subject.
func Subjects[T Subject](xs []T) []Subject {
	out := make([]Subject, 0, len(xs))
	for _, x := range xs {
		out = append(out, x)
	}
	return out
}

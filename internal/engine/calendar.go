package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-assistant/internal/config"
)

// Calendar renders a schedule as an iCalendar feed with one all-day event per
// congratulation, dated on the delivery day. UIDs are derived from the name
// and date, so re-exporting the same schedule yields the same identifiers.
func (s *Scheduler) Calendar(cs []Congratulation) ([]byte, error) {
	if len(cs) == 0 {
		// Clients reject a VCALENDAR with no components; emit the minimal stub.
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(s.Clock.Now().UTC())

	for _, c := range cs {
		event := s.createEvent(c)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyCount, len(cs))
	return buf.Bytes(), nil
}

func (s *Scheduler) createEvent(c Congratulation) *ical.Event {
	name := c.Subject.Name()
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, eventUID(name, c))

	summary := fmt.Sprintf(config.FallbackSummary, name)
	if s.FormatSummary != nil {
		summary = s.FormatSummary(name, c.Age())
	}
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(c.Date)
	event.Props.Set(dtStartProp)

	if s.ReminderTrigger != "" {
		addAlarm(event, s.ReminderTrigger, summary)
	}
	return event
}

func eventUID(name string, c Congratulation) string {
	input := fmt.Sprintf(config.FormatHashInput, name, c.Date.Format(config.DateFormatISO), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, hash[:config.UIDHashLength], c.Date.Year(), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly; SetText would add VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

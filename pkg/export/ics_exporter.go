package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is one calendar entry. Weeks > 1 makes it a weekly recurrence.
type Event struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Weeks       int
}

// ICSExporter renders events as an iCalendar document.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{
		productID: "-//course-registration-api//timetable//EN",
		now:       time.Now,
	}
}

// Render serialises events into a VCALENDAR.
func (e *ICSExporter) Render(events []Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)

	stamp := e.now().UTC()
	for _, evt := range events {
		if evt.UID == "" {
			return nil, fmt.Errorf("ics event %q has no uid", evt.Summary)
		}
		if !evt.End.After(evt.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", evt.UID)
		}
		vevent := cal.AddEvent(evt.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(evt.Start)
		vevent.SetEndAt(evt.End)
		vevent.SetSummary(evt.Summary)
		if evt.Location != "" {
			vevent.SetLocation(evt.Location)
		}
		if evt.Description != "" {
			vevent.SetDescription(evt.Description)
		}
		if evt.Weeks > 1 {
			vevent.SetProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", evt.Weeks))
		}
	}

	return []byte(cal.Serialize()), nil
}

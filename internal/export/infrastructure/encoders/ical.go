package encoders

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-ical"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

// ProductID identifies exported calendars.
const ProductID = "-//Mindfulness App//EN"

// ICal renders one VEVENT per session.
type ICal struct{}

func (ICal) Format() domain.Format { return domain.FormatICal }

func (ICal) Encode(w io.Writer, journal domain.Journal) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	// go-ical refuses to encode a calendar without components.
	if len(journal.Sessions) == 0 {
		_, err := io.WriteString(w, strings.Join([]string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"PRODID:" + ProductID,
			"CALSCALE:GREGORIAN",
			"METHOD:PUBLISH",
			"END:VCALENDAR",
		}, "\r\n")+"\r\n")
		return err
	}

	for _, s := range journal.Sessions {
		event := SessionEvent(s, fmt.Sprintf("mindfulness-%s@app", s.ID()))
		event.Props.SetDateTime(ical.PropDateTimeStamp, journal.ExportedAt.UTC())
		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

// SessionEvent converts a session into a VEVENT with the given UID. Sessions
// without an end time end when they started.
func SessionEvent(s *practice.Session, uid string) *ical.Event {
	end := s.StartedAt()
	if e := s.EndedAt(); e != nil {
		end = *e
	}

	description := "Meditation session"
	if note := s.Note(); note != nil && *note != "" {
		description = *note
	}

	status := "TENTATIVE"
	if s.IsCompleted() {
		status = "CONFIRMED"
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStart, s.StartedAt().UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("Meditation (%d min)", s.DurationMinutes()))
	event.Props.SetText(ical.PropDescription, description)
	event.Props.SetText(ical.PropStatus, status)
	return event
}

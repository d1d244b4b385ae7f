// Package calendar renders events as iCalendar documents so attendees can
// add them to their own calendars.
package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/joshua-takyi/gatherly/internal/models"
)

const productID = "-//gatherly//events//EN"

// EventToICS returns a VCALENDAR with a single VEVENT for ev. stamp is used
// for DTSTAMP.
func EventToICS(ev *models.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	vevent := cal.AddEvent(ev.ID + "@gatherly")
	vevent.SetDtStampTime(stamp.UTC())
	vevent.SetCreatedTime(ev.CreatedAt.UTC())
	vevent.SetModifiedAt(ev.LastModified().UTC())
	if isMidnight(ev.EventDate) {
		vevent.SetAllDayStartAt(ev.EventDate)
	} else {
		vevent.SetStartAt(ev.EventDate.UTC())
	}
	vevent.SetSummary(ev.EventTitle)
	vevent.SetDescription(ev.EventDescription)
	vevent.SetLocation(ev.EventLocation)
	if ev.EventCardImgURL != "" {
		vevent.AddProperty(ical.ComponentPropertyAttach, ev.EventCardImgURL)
	}
	if ev.Owner != "" {
		vevent.SetProperty(ical.ComponentPropertyOrganizer, calAddress(ev.Owner))
	}
	for _, attendee := range ev.Attendees {
		vevent.AddProperty(ical.ComponentPropertyAttendee, calAddress(attendee))
	}

	return cal.Serialize()
}

// calAddress turns a caller identity into a CAL-ADDRESS. Email identities
// become mailto: URIs; opaque subject ids are namespaced under urn:gatherly.
func calAddress(identity string) string {
	if strings.Contains(identity, "@") && !strings.Contains(identity, ":") {
		return "mailto:" + identity
	}
	return "urn:gatherly:user:" + identity
}

// isMidnight treats date-only event dates (stored as UTC midnight) as
// all-day events.
func isMidnight(t time.Time) bool {
	t = t.UTC()
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/joshua-takyi/gatherly/internal/helpers"
)

const (
	EventsDbName  = "gatherly"
	EventsColName = "events"

	// dateOnly is accepted for eventDate alongside RFC 3339.
	dateOnly = "2006-01-02"
)

type Event struct {
	ID               string     `bson:"_id" json:"id"`
	Owner            string     `bson:"owner" json:"owner"`
	EventTitle       string     `bson:"event_title" json:"eventTitle"`             // e.g., "Go Meetup"
	EventDescription string     `bson:"event_description" json:"eventDescription"` // e.g., "Monthly talks and pizza"
	EventCardImgURL  string     `bson:"event_card_img_url" json:"eventCardImgUrl"`
	EventDate        time.Time  `bson:"event_date" json:"eventDate"`
	EventLocation    string     `bson:"event_location" json:"eventLocation"`
	Attendees        []string   `bson:"attendees" json:"attendees"`
	Reviews          []string   `bson:"reviews" json:"reviews"`
	MaxNumber        *int       `bson:"max_number,omitempty" json:"maxNumber,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// EventPayload is what clients send on create and update.
type EventPayload struct {
	EventTitle       string `json:"eventTitle" validate:"required"`
	EventDescription string `json:"eventDescription" validate:"required"`
	EventCardImgURL  string `json:"eventCardImgUrl" validate:"required"`
	EventDate        string `json:"eventDate" validate:"required"`
	EventLocation    string `json:"eventLocation" validate:"required"`
	MaxNumber        *int   `json:"maxNumber,omitempty" validate:"omitempty,min=1"`
}

type ReviewPayload struct {
	Text string `json:"text"`
}

type DeletePayload struct {
	Confirmation string `json:"confirmation"`
}

func (p *EventPayload) Sanitize() {
	p.EventTitle = helpers.StringTrim(p.EventTitle)
	p.EventDescription = helpers.StringTrim(p.EventDescription)
	p.EventCardImgURL = helpers.StringTrim(p.EventCardImgURL)
	p.EventDate = helpers.StringTrim(p.EventDate)
	p.EventLocation = helpers.StringTrim(p.EventLocation)
}

// ValidatePayload trims the payload, checks required fields and returns the
// parsed event date.
func (p *EventPayload) ValidatePayload() (time.Time, error) {
	p.Sanitize()
	if err := Validate.Struct(p); err != nil {
		return time.Time{}, NewError(ErrValidation,
			"Invalid payload. Payload must contain eventTitle, eventDescription, eventCardImgUrl, eventDate, and eventLocation.")
	}
	date, err := ParseEventDate(p.EventDate)
	if err != nil {
		return time.Time{}, NewError(ErrValidation, "invalid eventDate %q: expected RFC 3339 or YYYY-MM-DD", p.EventDate)
	}
	return date, nil
}

// ParseEventDate accepts RFC 3339, kept to millisecond precision, or
// YYYY-MM-DD as UTC midnight.
func ParseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Truncate(time.Millisecond), nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse event date: %w", err)
	}
	return t, nil
}

// HasAttendee is a linear membership check; attendee uniqueness relies on it.
func (e *Event) HasAttendee(caller string) bool {
	return slices.Contains(e.Attendees, caller)
}

func (e *Event) IsFull() bool {
	return e.MaxNumber != nil && len(e.Attendees) >= *e.MaxNumber
}

// LastModified returns updatedAt when set, otherwise createdAt.
func (e *Event) LastModified() time.Time {
	if e.UpdatedAt != nil {
		return *e.UpdatedAt
	}
	return e.CreatedAt
}

// Clone returns a deep copy so callers never share slices with a store.
func (e *Event) Clone() *Event {
	c := *e
	c.Attendees = append([]string{}, e.Attendees...)
	c.Reviews = append([]string{}, e.Reviews...)
	if e.MaxNumber != nil {
		n := *e.MaxNumber
		c.MaxNumber = &n
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// normalize replaces nil slices decoded from storage with empty ones.
func (e *Event) normalize() {
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.Reviews == nil {
		e.Reviews = []string{}
	}
}

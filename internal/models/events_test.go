package models

import (
	"errors"
	"testing"
	"time"
)

func validPayload() EventPayload {
	return EventPayload{
		EventTitle:       "Go Meetup",
		EventDescription: "Monthly talks",
		EventCardImgURL:  "https://example.com/card.png",
		EventDate:        "2030-05-01T18:00:00Z",
		EventLocation:    "Accra",
	}
}

func TestValidatePayload(t *testing.T) {
	t.Parallel()

	zero := 0
	tests := []struct {
		name    string
		mutate  func(p *EventPayload)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *EventPayload) {}},
		{name: "date only", mutate: func(p *EventPayload) { p.EventDate = "2030-05-01" }},
		{name: "missing title", mutate: func(p *EventPayload) { p.EventTitle = "" }, wantErr: true},
		{name: "whitespace location", mutate: func(p *EventPayload) { p.EventLocation = "   " }, wantErr: true},
		{name: "missing image", mutate: func(p *EventPayload) { p.EventCardImgURL = "" }, wantErr: true},
		{name: "bad date", mutate: func(p *EventPayload) { p.EventDate = "next tuesday" }, wantErr: true},
		{name: "zero capacity", mutate: func(p *EventPayload) { p.MaxNumber = &zero }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPayload()
			tt.mutate(&p)

			_, err := p.ValidatePayload()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ValidatePayload() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePayload() unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePayloadTrimsFields(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.EventTitle = "  Go Meetup  "
	if _, err := p.ValidatePayload(); err != nil {
		t.Fatalf("ValidatePayload: %v", err)
	}
	if p.EventTitle != "Go Meetup" {
		t.Errorf("EventTitle = %q, want trimmed", p.EventTitle)
	}
}

func TestParseEventDate(t *testing.T) {
	t.Parallel()

	got, err := ParseEventDate("2030-05-01T20:00:00+02:00")
	if err != nil {
		t.Fatalf("ParseEventDate: %v", err)
	}
	want := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseEventDate = %v, want %v in UTC", got, want)
	}

	got, err = ParseEventDate("2030-05-01")
	if err != nil {
		t.Fatalf("ParseEventDate(date only): %v", err)
	}
	if !got.Equal(time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseEventDate(date only) = %v", got)
	}
}

func TestEventCapacityAndLastModified(t *testing.T) {
	t.Parallel()

	e := sampleEvent("id", "owner")
	if e.IsFull() {
		t.Fatal("empty event with capacity 3 reported full")
	}
	e.Attendees = []string{"a", "b", "c"}
	if !e.IsFull() {
		t.Error("event at capacity not reported full")
	}
	e.MaxNumber = nil
	if e.IsFull() {
		t.Error("event without capacity reported full")
	}

	if !e.LastModified().Equal(e.CreatedAt) {
		t.Errorf("LastModified = %v, want createdAt", e.LastModified())
	}
	updated := e.CreatedAt.Add(time.Hour)
	e.UpdatedAt = &updated
	if !e.LastModified().Equal(updated) {
		t.Errorf("LastModified = %v, want updatedAt", e.LastModified())
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	err := NotFoundError("abc")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NotFoundError does not match ErrNotFound")
	}
	if err.Error() != "an event with id=abc not found" {
		t.Errorf("NotFoundError message = %q", err.Error())
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("NotFoundError matches ErrValidation")
	}

	storage := StorageError(errors.New("disk full"))
	if !errors.Is(storage, ErrStorage) || storage.Error() != "disk full" {
		t.Errorf("StorageError = %v", storage)
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/gatherly/internal/models"
)

const ReviewAddedMessage = "review added successfully"

// Invocation carries what the host supplies for a single call: who is
// calling and the time of the call.
type Invocation struct {
	Caller string
	Time   time.Time
}

// Features toggles the behaviours that differ between deployments.
type Features struct {
	EnforceCapacity           bool
	EnforceUpdateOwnership    bool
	RequireDeleteConfirmation bool
	DeleteConfirmationToken   string
}

// ImageUploader re-hosts an event card image and returns its final URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, src string) (string, error)
}

type EventService struct {
	// mu serializes every operation against the store, so each call is a
	// single read-modify-write as seen by other callers.
	mu       sync.Mutex
	store    models.EventStore
	images   ImageUploader
	features Features
	logger   *slog.Logger
	newID    func() string
}

// NewEventService wires the service to its store. images may be nil, in which
// case card image URLs are stored as given.
func NewEventService(store models.EventStore, images ImageUploader, features Features, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		store:    store,
		images:   images,
		features: features,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	return es.values(ctx)
}

// ListEventsPage returns the page-th window of pageSize events in key order
// along with the total number of events. A window past the end is truncated
// or empty, never an error.
func (es *EventService) ListEventsPage(ctx context.Context, page, pageSize int) ([]*models.Event, int, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, models.NewError(models.ErrValidation, "page and pageSize must be positive integers")
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	events, err := es.values(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(events)
	// Compare page counts before multiplying so a huge page cannot overflow.
	if total == 0 || page-1 > (total-1)/pageSize {
		return []*models.Event{}, total, nil
	}
	start := (page - 1) * pageSize
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}
	return events[start:end], total, nil
}

func (es *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	return es.get(ctx, id)
}

func (es *EventService) CreateEvent(ctx context.Context, inv Invocation, payload models.EventPayload) (*models.Event, error) {
	date, err := payload.ValidatePayload()
	if err != nil {
		return nil, err
	}

	imageURL, err := es.uploadImage(ctx, payload.EventCardImgURL)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:               es.newID(),
		Owner:            inv.Caller,
		EventTitle:       payload.EventTitle,
		EventDescription: payload.EventDescription,
		EventCardImgURL:  imageURL,
		EventDate:        date,
		EventLocation:    payload.EventLocation,
		Attendees:        []string{},
		Reviews:          []string{},
		MaxNumber:        payload.MaxNumber,
		CreatedAt:        stampTime(inv.Time),
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if err := es.store.Insert(ctx, event); err != nil {
		es.logger.Error("Failed to store event", "event_id", event.ID, "error", err)
		return nil, models.StorageError(err)
	}

	es.logger.Info("Event created", "event_id", event.ID, "caller", inv.Caller)
	return event, nil
}

func (es *EventService) UpdateEvent(ctx context.Context, inv Invocation, id string, payload models.EventPayload) (*models.Event, error) {
	date, err := payload.ValidatePayload()
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	event, err := es.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if es.features.EnforceUpdateOwnership && event.Owner != inv.Caller {
		return nil, models.NewError(models.ErrUnauthorized, "you are not the owner of this event")
	}

	if payload.MaxNumber != nil && len(event.Attendees) > *payload.MaxNumber {
		return nil, models.NewError(models.ErrValidation,
			"maxNumber %d is below the current attendee count %d", *payload.MaxNumber, len(event.Attendees))
	}

	imageURL := payload.EventCardImgURL
	if imageURL != event.EventCardImgURL {
		if imageURL, err = es.uploadImage(ctx, imageURL); err != nil {
			return nil, err
		}
	}

	updatedAt := stampTime(inv.Time)
	if last := event.LastModified(); updatedAt.Before(last) {
		updatedAt = last
	}

	event.EventTitle = payload.EventTitle
	event.EventDescription = payload.EventDescription
	event.EventCardImgURL = imageURL
	event.EventDate = date
	event.EventLocation = payload.EventLocation
	event.MaxNumber = payload.MaxNumber
	event.UpdatedAt = &updatedAt

	if err := es.store.Insert(ctx, event); err != nil {
		es.logger.Error("Failed to store event", "event_id", id, "error", err)
		return nil, models.StorageError(err)
	}

	es.logger.Info("Event updated", "event_id", id, "caller", inv.Caller)
	return event, nil
}

// DeleteEvent removes the event and returns it. confirmation is only checked
// when delete confirmation is enabled.
func (es *EventService) DeleteEvent(ctx context.Context, inv Invocation, id, confirmation string) (*models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	event, err := es.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.Owner != inv.Caller {
		return nil, models.NewError(models.ErrUnauthorized, "you are not the owner of this event")
	}

	if es.features.RequireDeleteConfirmation && confirmation != es.features.DeleteConfirmationToken {
		return nil, models.NewError(models.ErrValidation,
			"deletion must be confirmed with %q", es.features.DeleteConfirmationToken)
	}

	if err := es.store.Remove(ctx, id); err != nil {
		es.logger.Error("Failed to remove event", "event_id", id, "error", err)
		return nil, models.StorageError(err)
	}

	es.logger.Info("Event deleted", "event_id", id, "caller", inv.Caller)
	return event, nil
}

// AttendEvent adds the caller to the attendee list. Attending twice is a
// no-op that returns the event unchanged.
func (es *EventService) AttendEvent(ctx context.Context, inv Invocation, id string) (*models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	event, err := es.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.HasAttendee(inv.Caller) {
		return event, nil
	}

	if es.features.EnforceCapacity && event.IsFull() {
		return nil, models.NewError(models.ErrCapacityExceeded,
			"event %s has reached its capacity of %d attendees", id, *event.MaxNumber)
	}

	event.Attendees = append(event.Attendees, inv.Caller)
	if err := es.store.Insert(ctx, event); err != nil {
		es.logger.Error("Failed to store event", "event_id", id, "error", err)
		return nil, models.StorageError(err)
	}

	es.logger.Info("Attendee added", "event_id", id, "caller", inv.Caller, "attendees", len(event.Attendees))
	return event, nil
}

func (es *EventService) AddReview(ctx context.Context, inv Invocation, id, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", models.NewError(models.ErrValidation, "review text cannot be empty")
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	event, err := es.get(ctx, id)
	if err != nil {
		return "", err
	}

	if !event.HasAttendee(inv.Caller) {
		return "", models.NewError(models.ErrUnauthorized, "only attendees can review this event: not an attendee")
	}

	event.Reviews = append(event.Reviews, text)
	if err := es.store.Insert(ctx, event); err != nil {
		es.logger.Error("Failed to store event", "event_id", id, "error", err)
		return "", models.StorageError(err)
	}

	es.logger.Info("Review added", "event_id", id, "caller", inv.Caller)
	return ReviewAddedMessage, nil
}

func (es *EventService) ListEventsByOrganizer(ctx context.Context, ownerID string) ([]*models.Event, error) {
	return es.filter(ctx, func(e *models.Event) bool {
		return e.Owner == ownerID
	})
}

func (es *EventService) ListAttendedEvents(ctx context.Context, inv Invocation) ([]*models.Event, error) {
	return es.filter(ctx, func(e *models.Event) bool {
		return e.HasAttendee(inv.Caller)
	})
}

// ListEventsByTimeStatus selects events dated after the invocation time when
// upcoming is true, and events dated at or before it otherwise.
func (es *EventService) ListEventsByTimeStatus(ctx context.Context, inv Invocation, upcoming bool) ([]*models.Event, error) {
	return es.filter(ctx, func(e *models.Event) bool {
		return e.EventDate.After(inv.Time) == upcoming
	})
}

// stampTime drops precision below a millisecond, which is all a BSON datetime
// keeps, so a record reads back exactly as it was returned.
func stampTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (es *EventService) filter(ctx context.Context, keep func(*models.Event) bool) ([]*models.Event, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	events, err := es.values(ctx)
	if err != nil {
		return nil, err
	}

	matched := []*models.Event{}
	for _, e := range events {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (es *EventService) get(ctx context.Context, id string) (*models.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.NewError(models.ErrValidation, "event id is required")
	}

	event, err := es.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NotFoundError(id)
		}
		es.logger.Error("Failed to read event", "event_id", id, "error", err)
		return nil, models.StorageError(err)
	}
	return event, nil
}

func (es *EventService) values(ctx context.Context) ([]*models.Event, error) {
	events, err := es.store.Values(ctx)
	if err != nil {
		es.logger.Error("Failed to fetch events", "error", err)
		return nil, models.NewError(models.ErrStorage, "Failed to fetch events: %v", err)
	}
	return events, nil
}

func (es *EventService) uploadImage(ctx context.Context, src string) (string, error) {
	if es.images == nil {
		return src, nil
	}
	url, err := es.images.UploadImage(ctx, src)
	if err != nil {
		es.logger.Error("Failed to upload event image", "error", err)
		return "", models.NewError(models.ErrValidation, "failed to upload event image: %v", err)
	}
	return url, nil
}

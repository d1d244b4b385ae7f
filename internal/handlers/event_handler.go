package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gatherly/internal/calendar"
	"github.com/joshua-takyi/gatherly/internal/config"
	"github.com/joshua-takyi/gatherly/internal/middleware"
	"github.com/joshua-takyi/gatherly/internal/models"
	"github.com/joshua-takyi/gatherly/internal/services"
)

// Clock supplies the time recorded on each invocation.
type Clock func() time.Time

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

// invocation builds the per-request context handed to the service. It
// responds with 401 and returns false when no caller is attached.
func invocation(c *gin.Context, now Clock) (services.Invocation, bool) {
	caller := middleware.GetCaller(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return services.Invocation{}, false
	}
	return services.Invocation{Caller: caller, Time: now()}, true
}

func eventID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	return strings.Trim(id, "\"'")
}

func ListEvents(es *services.EventService, features config.Features) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !features.Pagination {
			events, err := es.ListEvents(c.Request.Context())
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid page parameter"))
			return
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(features.DefaultPageSize)))
		if err != nil || pageSize <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid page_size parameter"))
			return
		}

		events, total, err := es.ListEventsPage(c.Request.Context(), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, pageSize, total))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetEvent(c.Request.Context(), eventID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func CreateEvent(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), inv, payload)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func UpdateEvent(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.UpdateEvent(c.Request.Context(), inv, eventID(c), payload)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

// DeleteEvent accepts the confirmation token either as the confirmation
// query parameter or in a JSON body.
func DeleteEvent(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		confirmation := c.Query("confirmation")
		if confirmation == "" && c.Request.ContentLength > 0 {
			var payload models.DeletePayload
			if err := c.ShouldBindJSON(&payload); err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			confirmation = payload.Confirmation
		}

		event, err := es.DeleteEvent(c.Request.Context(), inv, eventID(c), confirmation)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event deleted successfully"))
	}
}

func AttendEvent(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		event, err := es.AttendEvent(c.Request.Context(), inv, eventID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func AddReview(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		var payload models.ReviewPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		message, err := es.AddReview(c.Request.Context(), inv, eventID(c), payload.Text)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(nil, message))
	}
}

func ListEventsByOrganizer(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.Param("owner_id"))
		if ownerID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("organizer ID is required"))
			return
		}

		events, err := es.ListEventsByOrganizer(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func ListAttendedEvents(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		events, err := es.ListAttendedEvents(c.Request.Context(), inv)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func ListEventsByTimeStatus(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, ok := invocation(c, now)
		if !ok {
			return
		}

		upcoming, err := strconv.ParseBool(c.Query("upcoming"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("upcoming must be true or false"))
			return
		}

		events, err := es.ListEventsByTimeStatus(c.Request.Context(), inv, upcoming)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

// ExportEventICS serves the event as an iCalendar attachment.
func ExportEventICS(es *services.EventService, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetEvent(c.Request.Context(), eventID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+event.ID+`.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.EventToICS(event, now())))
	}
}

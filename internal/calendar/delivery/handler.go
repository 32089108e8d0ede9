package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authdelivery "taskportal-backend/internal/auth/delivery"
	"taskportal-backend/internal/calendar/usecase"
)

// CalendarHandler serves stored events and their expanded occurrences
type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{calendarUsecase: calendarUsecase}
}

// ListEvents returns the stored event definitions
// GET /api/events
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.calendarUsecase.Events())
}

// ListOccurrences expands events into dated occurrences for a range
// GET /api/events/occurrences?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CalendarHandler) ListOccurrences(c *gin.Context) {
	const layout = "2006-01-02"

	start, err := time.Parse(layout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(layout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, h.calendarUsecase.Occurrences(start, end))
}

// AddEvent stores a new calendar event
// POST /api/events
func (h *CalendarHandler) AddEvent(c *gin.Context) {
	var payload usecase.AddEventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendarUsecase.AddEvent(authdelivery.ActorFrom(c), payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// DeleteEvent removes a stored event
// DELETE /api/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.calendarUsecase.DeleteEvent(authdelivery.ActorFrom(c), c.Param("id")); err != nil {
		status := http.StatusForbidden
		if err.Error() == "event not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event removed"})
}

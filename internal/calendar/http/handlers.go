package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/service"
	"github.com/cs121-teamhub/teamhub-backend/internal/logging"
)

const successBody = "Success"

// Handler serves the /events resource.
type Handler struct {
	calendar *service.CalendarService
}

func New(calendar *service.CalendarService) *Handler {
	return &Handler{calendar: calendar}
}

// ListEvents returns every event visible to the caller. Browsers cannot send
// a GET body, so an empty body falls back to the userToken query parameter.
func (h *Handler) ListEvents(c *gin.Context) {
	doc, ok := readDocument(c, true)
	if !ok {
		return
	}

	events, err := h.calendar.List(c.Request.Context(), doc)
	if err != nil {
		writeError(c, "list_events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	doc, ok := readDocument(c, false)
	if !ok {
		return
	}

	if _, err := h.calendar.Create(c.Request.Context(), doc); err != nil {
		writeError(c, "create_event", err)
		return
	}
	c.JSON(http.StatusCreated, successBody)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	doc, ok := readDocument(c, false)
	if !ok {
		return
	}

	if err := h.calendar.Update(c.Request.Context(), doc); err != nil {
		writeError(c, "update_event", err)
		return
	}
	c.JSON(http.StatusCreated, successBody)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	doc, ok := readDocument(c, false)
	if !ok {
		return
	}

	if err := h.calendar.Delete(c.Request.Context(), doc); err != nil {
		writeError(c, "delete_event", err)
		return
	}
	c.JSON(http.StatusCreated, successBody)
}

// readDocument decodes the request body as a JSON object. A missing or
// malformed body is answered with 400 and ok=false.
func readDocument(c *gin.Context, queryFallback bool) (domain.Document, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error")
		return nil, false
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if token := c.Query("userToken"); queryFallback && token != "" {
			return domain.Document{"userToken": token}, true
		}
		c.JSON(http.StatusBadRequest, "Error")
		return nil, false
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		c.JSON(http.StatusBadRequest, "Error")
		return nil, false
	}
	return doc, true
}

func writeError(c *gin.Context, operation string, err error) {
	code := domain.StatusCode(err)
	if code == http.StatusInternalServerError {
		logging.New(c.Request.Context()).Error(operation, err)
		c.JSON(code, "Internal Server Error")
		return
	}

	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(code, de.Message)
		return
	}
	c.JSON(code, err.Error())
}

package http

import "github.com/gin-gonic/gin"

// Register registers the event routes.
func (h *Handler) Register(rg gin.IRouter) {
	rg.GET("/events", h.ListEvents)
	rg.POST("/events", h.CreateEvent)
	rg.PUT("/events", h.UpdateEvent)
	rg.DELETE("/events", h.DeleteEvent)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cs121-teamhub/teamhub-backend/internal/logging"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/service"
)

// Handler serves the users service endpoints.
type Handler struct {
	users *service.UsersService
}

func New(users *service.UsersService) *Handler {
	return &Handler{users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, err := h.users.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), userToken(c)); err != nil {
		writeError(c, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CheckToken(c *gin.Context) {
	cred, err := h.users.CheckToken(c.Request.Context(), userToken(c))
	if err != nil {
		writeError(c, "check_token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"firebase_token": cred})
}

func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.users.CurrentUser(c.Request.Context(), userToken(c))
	if err != nil {
		writeError(c, "current_user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) TeamMembers(c *gin.Context) {
	members, err := h.users.TeamMembers(c.Request.Context(), c.Param("id"), userToken(c))
	if err != nil {
		writeError(c, "team_members", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// userToken reads the user_token query parameter, accepting userToken too.
func userToken(c *gin.Context) string {
	if t := c.Query("user_token"); t != "" {
		return t
	}
	return c.Query("userToken")
}

func writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		logging.New(c.Request.Context()).Error(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

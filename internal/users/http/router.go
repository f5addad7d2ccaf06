package http

import "github.com/gin-gonic/gin"

// Register registers the users service routes. loginLimit guards /login
// and may be nil.
func (h *Handler) Register(rg gin.IRouter, loginLimit gin.HandlerFunc) {
	login := []gin.HandlerFunc{h.Login}
	if loginLimit != nil {
		login = append([]gin.HandlerFunc{loginLimit}, login...)
	}

	rg.POST("/login", login...)
	rg.POST("/logout", h.Logout)
	rg.GET("/check_token", h.CheckToken)
	rg.GET("/users/current", h.CurrentUser)
	rg.GET("/teams/:id/members", h.TeamMembers)
}

package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/cs121-teamhub/teamhub-backend/internal/api/http"
	"github.com/cs121-teamhub/teamhub-backend/internal/api/http/middleware"
	calhttp "github.com/cs121-teamhub/teamhub-backend/internal/calendar/http"
	calservice "github.com/cs121-teamhub/teamhub-backend/internal/calendar/service"
	usershttp "github.com/cs121-teamhub/teamhub-backend/internal/users/http"
	usersservice "github.com/cs121-teamhub/teamhub-backend/internal/users/service"
)

type CalendarRouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Calendar    *calservice.CalendarService
	Checks      map[string]httpapi.CheckFunc
}

func BuildCalendarRouter(dep CalendarRouterDeps) *gin.Engine {
	r := newEngine(dep.CORSOrigins)

	health := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	for name, check := range dep.Checks {
		health.AddCheck(name, check)
	}
	health.RegisterRoutes(r)

	calhttp.New(dep.Calendar).Register(r)

	return r
}

type UsersRouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	Users          *usersservice.UsersService
	LoginRateLimit float64
	LoginBurst     int
	Checks         map[string]httpapi.CheckFunc
}

func BuildUsersRouter(dep UsersRouterDeps) *gin.Engine {
	r := newEngine(dep.CORSOrigins)

	health := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	for name, check := range dep.Checks {
		health.AddCheck(name, check)
	}
	health.RegisterRoutes(r)

	var loginLimit gin.HandlerFunc
	if dep.LoginRateLimit > 0 && dep.LoginBurst > 0 {
		loginLimit = middleware.NewRateLimiter(dep.LoginRateLimit, dep.LoginBurst).Middleware()
	}
	usershttp.New(dep.Users).Register(r, loginLimit)

	return r
}

func newEngine(origins []string) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(origins))
	r.Use(middleware.RequestID())
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

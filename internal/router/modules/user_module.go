package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deliverymx/user-service/internal/container"

	handlers "github.com/deliverymx/user-service/internal/interface/http"
	"github.com/deliverymx/user-service/internal/interface/middleware"
)

// UserModule wires the user account HTTP handlers into routes.
// Registration and lookup endpoints get tighter per-IP limits than reads.
// All routes are registered under the given RouterGroup (usually /api).

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 signups/min per IP
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	writeLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	{
		users.POST("", createLimiter, m.Handler.Create)
		users.GET("", readLimiter, m.Handler.GetByEmail)
		users.GET("/all", readLimiter, m.Handler.List)
		users.GET("/search", readLimiter, m.Handler.Search)
		users.GET("/:id", readLimiter, m.Handler.GetByID)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
		users.POST("/:id/addresses", writeLimiter, m.Handler.AddAddress)
		users.DELETE("/:id/addresses", writeLimiter, m.Handler.RemoveAddress)
		users.POST("/:id/photo", writeLimiter, m.Handler.UploadPhoto)
	}
}

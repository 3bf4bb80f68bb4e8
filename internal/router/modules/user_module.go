package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/placora/places-api/internal/container"
	handlers "github.com/placora/places-api/internal/interface/http"
	"github.com/placora/places-api/internal/interface/middleware"
)

// UserModule wires the user HTTP handlers into routes.
// Public: POST /api/users/signup, POST /api/users/login, GET /api/users
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)
	rg.GET("/users", m.Handler.List)
}

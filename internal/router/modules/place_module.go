package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/placora/places-api/internal/container"
	handlers "github.com/placora/places-api/internal/interface/http"
	"github.com/placora/places-api/internal/interface/middleware"
	"github.com/placora/places-api/pkg/helpers"
)

// PlaceModule wires place HTTP handlers and the auth gate into routes.
// Public: GET /api/places/user/:uid, GET /api/places/search, GET /api/places/:pid
// Protected: POST /api/places, PATCH/DELETE /api/places/:pid, POST /api/places/:pid/image
type PlaceModule struct {
	Handler *handlers.PlaceHandler
	JWT     *helpers.JWTManager
}

func NewPlaceModule(h *handlers.PlaceHandler, jwt *helpers.JWTManager) *PlaceModule {
	return &PlaceModule{Handler: h, JWT: jwt}
}

func (m *PlaceModule) Register(rg *gin.RouterGroup) {
	rg.GET("/places/user/:uid", m.Handler.ListByUser)
	rg.GET("/places/search", m.Handler.Search)
	rg.GET("/places/:pid", m.Handler.GetByID)

	// Mutating operations sit behind the auth gate; reads stay open.
	auth := rg.Group("/places")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:pid", m.Handler.Update)
		auth.DELETE("/:pid", m.Handler.Delete)
		auth.POST("/:pid/image", m.Handler.UploadImage)
	}
}

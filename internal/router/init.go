package router

import (
	"github.com/placora/places-api/internal/application"
	"github.com/placora/places-api/internal/container"
	pginfra "github.com/placora/places-api/internal/infrastructure/postgres"
	handlers "github.com/placora/places-api/internal/interface/http"
	"github.com/placora/places-api/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	service := application.NewUserService(
		repo,
		container.GetJWT(),
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg.MailSendEnabled,
	)
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return modules.NewUserModule(handler)
}

func buildPlaceModule() *modules.PlaceModule {
	cfg := container.GetConfig()
	pool := container.GetPGPool()

	places := pginfra.NewPlaceRepository(pool)
	service := application.NewPlaceService(
		pginfra.NewTxManager(pool),
		places,
		container.GetRedis(),
		cfg.PlaceCacheTTL,
		container.GetES(),
		cfg.ESPlacesIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
	)
	handler := handlers.NewPlaceHandler(service, container.GetLogger())

	return modules.NewPlaceModule(handler, container.GetJWT())
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	r.Add(buildPlaceModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

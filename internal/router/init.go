package router

import (
	userapp "github.com/deliverymx/user-service/internal/application"
	"github.com/deliverymx/user-service/internal/container"
	repouser "github.com/deliverymx/user-service/internal/domain/repository"
	pginfra "github.com/deliverymx/user-service/internal/infrastructure/postgres"
	handlers "github.com/deliverymx/user-service/internal/interface/http"
	"github.com/deliverymx/user-service/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetEventPub(),
		container.GetMailPub(),
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

package authservice

import (
	"log/slog"

	"clubsync/contexts/identity-access/auth-service/adapters/memory"
	"clubsync/contexts/identity-access/auth-service/application"
	"clubsync/contexts/identity-access/auth-service/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Sessions  ports.SessionStore
	Clock     ports.Clock
	JWTSecret []byte
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Sessions:  deps.Sessions,
			Clock:     deps.Clock,
			JWTSecret: deps.JWTSecret,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(jwtSecret []byte, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Sessions:  store,
		JWTSecret: jwtSecret,
		Logger:    logger,
	})
	module.Store = store
	return module
}

package session

import (
	"github.com/agendabela/agendabela/internal/session/repository"
	"github.com/agendabela/agendabela/internal/session/service"
	"go.uber.org/fx"
)

var Module = fx.Module("session.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

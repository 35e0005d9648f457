package scope

import (
	"github.com/agendabela/agendabela/internal/scope/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scope.service",
	fx.Provide(service.New),
)

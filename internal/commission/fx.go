package commission

import (
	"github.com/agendabela/agendabela/internal/commission/repository"
	"github.com/agendabela/agendabela/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

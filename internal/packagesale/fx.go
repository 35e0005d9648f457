package packagesale

import (
	"github.com/agendabela/agendabela/internal/packagesale/repository"
	"github.com/agendabela/agendabela/internal/packagesale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("packagesale.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

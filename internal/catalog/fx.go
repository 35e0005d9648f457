package catalog

import (
	"github.com/agendabela/agendabela/internal/catalog/repository"
	"github.com/agendabela/agendabela/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

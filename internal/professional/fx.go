package professional

import (
	"github.com/agendabela/agendabela/internal/professional/repository"
	"github.com/agendabela/agendabela/internal/professional/service"
	"go.uber.org/fx"
)

var Module = fx.Module("professional.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

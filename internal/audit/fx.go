package audit

import (
	"github.com/agendabela/agendabela/internal/audit/repository"
	"github.com/agendabela/agendabela/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

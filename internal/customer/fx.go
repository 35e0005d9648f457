package customer

import (
	"github.com/agendabela/agendabela/internal/customer/repository"
	"github.com/agendabela/agendabela/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

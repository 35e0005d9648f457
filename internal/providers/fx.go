package providers

import (
	"github.com/agendabela/agendabela/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(pdf.Provide),
)

package observability

import (
	"github.com/agendabela/agendabela/internal/observability/logger"
	"github.com/agendabela/agendabela/internal/observability/metrics"
	"github.com/agendabela/agendabela/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		logger.New,
		tracing.NewTracerProvider,
		metrics.New,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

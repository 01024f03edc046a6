package bootstrap

import (
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/metrics"

	"go.uber.org/fx"
)

const metricsNamespace = "turf_booking"

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewRecorder,
	),
)

func NewRecorder(cfg config.Config) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(metricsNamespace)
}

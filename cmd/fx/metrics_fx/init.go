package metrics_fx

import (
	"go.uber.org/fx"

	"coivault/pkg/metrics"
)

var Module = fx.Provide(metrics.New)

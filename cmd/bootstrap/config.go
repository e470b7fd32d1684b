package bootstrap

import (
	"staybook/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		// Booking rules take their knobs (advance window, reference attempts)
		// as a narrow struct rather than the whole config.
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	),
)

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/cronexpr"
	"github.com/sethvargo/go-envconfig"
)

// SchedulerConfig tunes the dispatch loop. The UTC offset is the single
// timezone knob of the whole bot; it is applied at the parse/display
// boundary only, storage stays UTC.
type SchedulerConfig struct {
	TickCron        string        `env:"SCHEDULER_TICK_CRON, default=* * * * *"`
	UTCOffsetHours  int           `env:"SCHEDULER_UTC_OFFSET_HOURS, default=9"`
	DeliveryTimeout time.Duration `env:"SCHEDULER_DELIVERY_TIMEOUT, default=10s"`
	RetryBackoff    time.Duration `env:"SCHEDULER_RETRY_BACKOFF, default=1h"`
}

func NewSchedulerConfigFromEnv() (*SchedulerConfig, error) {
	var cfg SchedulerConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	if _, err := cronexpr.Parse(cfg.TickCron); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TICK_CRON: %w", err)
	}

	return &cfg, nil
}

// Location materializes the configured offset as a fixed zone.
func (c *SchedulerConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}

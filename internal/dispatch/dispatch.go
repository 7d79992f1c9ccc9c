// Package dispatch runs the periodic check-and-deliver loop over due
// reminders and applies the delivery-failure policy.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/cronexpr"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/repository"
)

// Destination is a resolved delivery target.
type Destination struct {
	ID   string
	Name string
}

// Sender is the delivery collaborator. Send delivers a reminder into its
// destination; Notify sends a best-effort direct message to the owner.
type Sender interface {
	Resolve(ctx context.Context, channelID string) (Destination, error)
	Send(ctx context.Context, dest Destination, r repository.Reminder) error
	Notify(ctx context.Context, userID string, n Notice) error
}

// Config tunes a Dispatcher. Zero values fall back to the defaults noted
// on each field.
type Config struct {
	// TickCron is the cycle cadence as a cron expression. Default "* * * * *".
	TickCron string
	// Location is the zone recurrence math runs in. Default time.UTC.
	Location *time.Location
	// DeliveryTimeout bounds a single delivery attempt. Default 10s.
	DeliveryTimeout time.Duration
	// RetryBackoff is how far a permission-denied reminder is deferred.
	// Default 1h.
	RetryBackoff time.Duration
	// MaxRetries caps permission-denied attempts before retirement. Default 3.
	MaxRetries int
	// ArchivedGrace and LockedGrace delay retirement of reminders whose
	// thread is archived or locked. Defaults 72h and 24h.
	ArchivedGrace time.Duration
	LockedGrace   time.Duration
	// Now is the clock, overridable in tests. Default time.Now.
	Now func() time.Time
}

// Dispatcher polls the store on a fixed cadence and reconciles due
// reminders against the wall clock. All collaborators are injected; there
// is no package-level state.
type Dispatcher struct {
	store  repository.ReminderStore
	sender Sender
	expr   *cronexpr.Expression

	loc             *time.Location
	deliveryTimeout time.Duration
	retryBackoff    time.Duration
	maxRetries      int
	archivedGrace   time.Duration
	lockedGrace     time.Duration
	now             func() time.Time
}

func New(store repository.ReminderStore, sender Sender, cfg Config) (*Dispatcher, error) {
	if cfg.TickCron == "" {
		cfg.TickCron = "* * * * *"
	}
	expr, err := cronexpr.Parse(cfg.TickCron)
	if err != nil {
		return nil, fmt.Errorf("invalid tick cron expression: %w", err)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DeliveryTimeout == 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Hour
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.ArchivedGrace == 0 {
		cfg.ArchivedGrace = 72 * time.Hour
	}
	if cfg.LockedGrace == 0 {
		cfg.LockedGrace = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Dispatcher{
		store:           store,
		sender:          sender,
		expr:            expr,
		loc:             cfg.Location,
		deliveryTimeout: cfg.DeliveryTimeout,
		retryBackoff:    cfg.RetryBackoff,
		maxRetries:      cfg.MaxRetries,
		archivedGrace:   cfg.ArchivedGrace,
		lockedGrace:     cfg.LockedGrace,
		now:             cfg.Now,
	}, nil
}

// Run executes dispatch cycles on the configured cadence until ctx is
// canceled. It always returns ctx's error, never a cycle error: cycles log
// their failures and the loop resumes on the next tick.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		next := d.expr.Next(d.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			d.RunCycle(ctx)
		}
	}
}

// RunCycle executes a single dispatch cycle: fetch due reminders, deliver
// each sequentially, and reschedule or retire. Nothing propagates out of a
// cycle.
func (d *Dispatcher) RunCycle(ctx context.Context) {
	now := d.now()
	due, err := d.store.Due(ctx, now)
	if err != nil {
		slog.Error("failed to fetch due reminders, skipping cycle", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	slog.Info("processing due reminders", "count", len(due))
	for _, reminder := range due {
		d.process(ctx, reminder, now)
	}
}

func (d *Dispatcher) process(ctx context.Context, r repository.Reminder, now time.Time) {
	sendCtx, cancel := context.WithTimeout(ctx, d.deliveryTimeout)
	err := d.deliver(sendCtx, r)
	cancel()

	if err != nil {
		d.handleFailure(ctx, r, now, err)
		return
	}

	slog.Info("reminder delivered", "id", r.ID, "channelID", r.ChannelID)
	d.reschedule(ctx, r, now)
}

func (d *Dispatcher) deliver(ctx context.Context, r repository.Reminder) error {
	dest, err := d.sender.Resolve(ctx, r.ChannelID)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, dest, r)
}

// reschedule advances a recurring reminder's due time in place, or retires
// a one-off after its single delivery.
func (d *Dispatcher) reschedule(ctx context.Context, r repository.Reminder, now time.Time) {
	switch r.Recurrence.Kind {
	case recurrence.KindInterval:
		next := recurrence.AdvanceInterval(r.Recurrence.Interval, r.DueAt)
		if err := d.store.UpdateDueAt(ctx, r.ID, next); err != nil {
			slog.Error("failed to advance interval reminder", "id", r.ID, "error", err)
		}
	case recurrence.KindCalendar:
		next, ok := recurrence.Next(r.Recurrence.Schedule, now.In(d.loc))
		if !ok {
			// An unrecognized schedule would stay due forever; drop it
			// rather than redeliver every cycle.
			slog.Error("unrecognized schedule kind, retiring reminder", "id", r.ID)
			if err := d.store.Remove(ctx, r.ID); err != nil {
				slog.Error("failed to remove reminder", "id", r.ID, "error", err)
			}
			return
		}
		if err := d.store.UpdateDueAt(ctx, r.ID, next.UTC()); err != nil {
			slog.Error("failed to advance scheduled reminder", "id", r.ID, "error", err)
		}
	default:
		if err := d.store.Remove(ctx, r.ID); err != nil {
			slog.Error("failed to retire delivered reminder", "id", r.ID, "error", err)
		}
	}
}

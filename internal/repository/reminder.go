package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
)

// Reminder is a scheduled message. DueAt is the only scheduling field that
// mutates after creation; it advances in place on every recurrence cycle.
// RetireAt, when set, is the deadline after which the dispatcher removes a
// reminder whose destination stayed restricted.
type Reminder struct {
	ID         int64
	OwnerID    string
	ChannelID  string
	Message    string
	DueAt      time.Time
	Recurrence recurrence.Recurrence
	RetryCount int
	RetireAt   *time.Time
	CreatedAt  time.Time
}

// ReminderStore is the durable reminder collaborator the command layer and
// the dispatcher share.
type ReminderStore interface {
	Create(ctx context.Context, r Reminder) (int64, error)
	GetByID(ctx context.Context, id int64, ownerID string) (*Reminder, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Reminder, error)
	Due(ctx context.Context, now time.Time) ([]Reminder, error)
	UpdateDueAt(ctx context.Context, id int64, dueAt time.Time) error
	UpdateRetry(ctx context.Context, id int64, dueAt time.Time, retryCount int) error
	SetRetireAt(ctx context.Context, id int64, retireAt time.Time) error
	Delete(ctx context.Context, id int64, ownerID string) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type PostgresReminderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReminderRepository(db *pgxpool.Pool) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

const reminderColumns = `id, owner_id, channel_id, message, due_at, recurrence, retry_count, retire_at, created_at`

// Create inserts a reminder and returns the store-assigned id.
func (r *PostgresReminderRepository) Create(ctx context.Context, reminder Reminder) (int64, error) {
	const query = `
	INSERT INTO reminders (owner_id, channel_id, message, due_at, recurrence)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	blob, err := recurrenceBlob(reminder.Recurrence)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRow(ctx, query,
		reminder.OwnerID,
		reminder.ChannelID,
		reminder.Message,
		reminder.DueAt.UTC(),
		blob,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}
	return id, nil
}

// GetByID fetches a reminder owned by ownerID. It returns nil when no such
// reminder exists.
func (r *PostgresReminderRepository) GetByID(ctx context.Context, id int64, ownerID string) (*Reminder, error) {
	const query = `
	SELECT ` + reminderColumns + `
	FROM reminders
	WHERE id = $1 AND owner_id = $2
	`

	reminder, err := scanReminder(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminder %d: %w", id, err)
	}
	return &reminder, nil
}

// ListByOwner returns all reminders of one owner, soonest first.
func (r *PostgresReminderRepository) ListByOwner(ctx context.Context, ownerID string) ([]Reminder, error) {
	const query = `
	SELECT ` + reminderColumns + `
	FROM reminders
	WHERE owner_id = $1
	ORDER BY due_at ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// Due returns every reminder whose due time is at or before now, soonest
// first. Ties with now are included.
func (r *PostgresReminderRepository) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	const query = `
	SELECT ` + reminderColumns + `
	FROM reminders
	WHERE due_at <= $1
	ORDER BY due_at ASC
	`

	rows, err := r.db.Query(ctx, query, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// UpdateDueAt advances a reminder to its next occurrence. A successful
// delivery also clears any pending retry or retirement state.
func (r *PostgresReminderRepository) UpdateDueAt(ctx context.Context, id int64, dueAt time.Time) error {
	const query = `
	UPDATE reminders
	SET due_at = $2, retry_count = 0, retire_at = NULL
	WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, dueAt.UTC()); err != nil {
		return fmt.Errorf("failed to update due time of reminder %d: %w", id, err)
	}
	return nil
}

// UpdateRetry defers a reminder to a later cycle and records the attempt.
func (r *PostgresReminderRepository) UpdateRetry(ctx context.Context, id int64, dueAt time.Time, retryCount int) error {
	const query = `
	UPDATE reminders
	SET due_at = $2, retry_count = $3
	WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, dueAt.UTC(), retryCount); err != nil {
		return fmt.Errorf("failed to record retry for reminder %d: %w", id, err)
	}
	return nil
}

// SetRetireAt arms the deferred-retirement deadline of a reminder.
func (r *PostgresReminderRepository) SetRetireAt(ctx context.Context, id int64, retireAt time.Time) error {
	const query = `
	UPDATE reminders
	SET retire_at = $2
	WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, retireAt.UTC()); err != nil {
		return fmt.Errorf("failed to set retirement deadline for reminder %d: %w", id, err)
	}
	return nil
}

// Delete removes a reminder scoped to its owner. It reports false when no
// matching row exists, which callers surface as "not found".
func (r *PostgresReminderRepository) Delete(ctx context.Context, id int64, ownerID string) (bool, error) {
	const query = `
	DELETE FROM reminders
	WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove unconditionally removes a reminder. The dispatcher uses it to
// retire records it already holds.
func (r *PostgresReminderRepository) Remove(ctx context.Context, id int64) error {
	const query = `DELETE FROM reminders WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to remove reminder %d: %w", id, err)
	}
	return nil
}

func recurrenceBlob(rec recurrence.Recurrence) ([]byte, error) {
	if rec.IsNone() {
		return nil, nil
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize recurrence: %w", err)
	}
	return blob, nil
}

func scanReminder(row pgx.Row) (Reminder, error) {
	var (
		reminder Reminder
		blob     []byte
	)
	err := row.Scan(
		&reminder.ID,
		&reminder.OwnerID,
		&reminder.ChannelID,
		&reminder.Message,
		&reminder.DueAt,
		&blob,
		&reminder.RetryCount,
		&reminder.RetireAt,
		&reminder.CreatedAt,
	)
	if err != nil {
		return Reminder{}, err
	}

	if blob == nil {
		reminder.Recurrence = recurrence.None
	} else if err := json.Unmarshal(blob, &reminder.Recurrence); err != nil {
		return Reminder{}, fmt.Errorf("failed to deserialize recurrence of reminder %d: %w", reminder.ID, err)
	}
	reminder.DueAt = reminder.DueAt.UTC()
	return reminder, nil
}

func collectReminders(rows pgx.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reminder rows: %w", err)
	}
	return reminders, nil
}

var _ ReminderStore = (*PostgresReminderRepository)(nil)

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/daybreak-labs/remindbot/internal/datalayer"
	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/repository"
)

func TestPostgresReminderRepository(t *testing.T) {
	ctx := context.Background()
	postgresContainer, err := postgres.Run(
		ctx,
		"postgres",
		postgres.WithDatabase("remindbot"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate postgres container: %v", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}
	defer pool.Close()

	if err := datalayer.MigratePostgres(pool); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	repo := repository.NewPostgresReminderRepository(pool)
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("Create assigns ids and GetByID round-trips the record", func(t *testing.T) {
		rec := recurrence.NewCalendar(recurrence.Schedule{
			Kind: recurrence.Weekly, DayOfWeek: 1, Hour: 11, Minute: 0,
		})
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID:    "owner-a",
			ChannelID:  "chan-1",
			Message:    "주간 회의",
			DueAt:      now.Add(time.Hour),
			Recurrence: rec,
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}
		if id == 0 {
			t.Fatal("Create returned a zero id")
		}

		got, err := repo.GetByID(ctx, id, "owner-a")
		if err != nil {
			t.Fatalf("failed to fetch reminder: %v", err)
		}
		if got == nil {
			t.Fatal("GetByID returned nil for an existing reminder")
		}
		if got.Message != "주간 회의" || got.ChannelID != "chan-1" {
			t.Errorf("fetched reminder does not match: %+v", got)
		}
		if !got.DueAt.Equal(now.Add(time.Hour)) {
			t.Errorf("due time = %v; want %v", got.DueAt, now.Add(time.Hour))
		}
		if got.Recurrence != rec {
			t.Errorf("recurrence round-trip mismatch: got %+v, want %+v", got.Recurrence, rec)
		}
	})

	t.Run("GetByID scopes to the owner", func(t *testing.T) {
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-b", ChannelID: "chan-1", Message: "비밀", DueAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		got, err := repo.GetByID(ctx, id, "someone-else")
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if got != nil {
			t.Errorf("GetByID leaked another owner's reminder: %+v", got)
		}
	})

	t.Run("A one-off reminder stores no recurrence", func(t *testing.T) {
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-c", ChannelID: "chan-1", Message: "한번만", DueAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		var blob []byte
		if err := pool.QueryRow(ctx, "SELECT recurrence FROM reminders WHERE id = $1", id).Scan(&blob); err != nil {
			t.Fatalf("failed to query recurrence column: %v", err)
		}
		if blob != nil {
			t.Errorf("one-off reminder stored recurrence %s; want NULL", blob)
		}

		got, err := repo.GetByID(ctx, id, "owner-c")
		if err != nil {
			t.Fatalf("failed to fetch reminder: %v", err)
		}
		if !got.Recurrence.IsNone() {
			t.Errorf("one-off reminder read back as %+v", got.Recurrence)
		}
	})

	t.Run("Due returns only elapsed reminders, soonest first", func(t *testing.T) {
		mustCreate := func(ownerID string, dueAt time.Time) int64 {
			t.Helper()
			id, err := repo.Create(ctx, repository.Reminder{
				OwnerID: ownerID, ChannelID: "chan-due", Message: "due", DueAt: dueAt,
			})
			if err != nil {
				t.Fatalf("failed to create reminder: %v", err)
			}
			return id
		}

		later := mustCreate("owner-due", now.Add(-time.Minute))
		earlier := mustCreate("owner-due", now.Add(-time.Hour))
		onTheDot := mustCreate("owner-due", now)
		mustCreate("owner-due", now.Add(time.Hour)) // not yet due

		due, err := repo.Due(ctx, now)
		if err != nil {
			t.Fatalf("failed to query due reminders: %v", err)
		}

		var ids []int64
		for _, r := range due {
			if r.ChannelID == "chan-due" {
				ids = append(ids, r.ID)
			}
		}
		want := []int64{earlier, later, onTheDot}
		if len(ids) != len(want) {
			t.Fatalf("due ids = %v; want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("due ids = %v; want %v", ids, want)
			}
		}
	})

	t.Run("UpdateDueAt clears retry and retirement state", func(t *testing.T) {
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-d", ChannelID: "chan-1", Message: "반복", DueAt: now,
			Recurrence: recurrence.NewInterval(recurrence.Interval{Unit: recurrence.UnitMinutes, Count: 30}),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		if err := repo.UpdateRetry(ctx, id, now.Add(time.Hour), 2); err != nil {
			t.Fatalf("failed to record retry: %v", err)
		}
		if err := repo.SetRetireAt(ctx, id, now.Add(72*time.Hour)); err != nil {
			t.Fatalf("failed to set retirement deadline: %v", err)
		}

		got, err := repo.GetByID(ctx, id, "owner-d")
		if err != nil {
			t.Fatalf("failed to fetch reminder: %v", err)
		}
		if got.RetryCount != 2 || got.RetireAt == nil {
			t.Fatalf("retry state not persisted: %+v", got)
		}

		next := now.Add(30 * time.Minute)
		if err := repo.UpdateDueAt(ctx, id, next); err != nil {
			t.Fatalf("failed to update due time: %v", err)
		}

		got, err = repo.GetByID(ctx, id, "owner-d")
		if err != nil {
			t.Fatalf("failed to fetch reminder: %v", err)
		}
		if !got.DueAt.Equal(next) {
			t.Errorf("due time = %v; want %v", got.DueAt, next)
		}
		if got.RetryCount != 0 {
			t.Errorf("retry count = %d; want 0 after a successful delivery", got.RetryCount)
		}
		if got.RetireAt != nil {
			t.Errorf("retirement deadline = %v; want cleared", got.RetireAt)
		}
	})

	t.Run("ListByOwner returns only that owner's reminders, soonest first", func(t *testing.T) {
		second, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-list", ChannelID: "chan-1", Message: "둘째", DueAt: now.Add(2 * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}
		first, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-list", ChannelID: "chan-1", Message: "첫째", DueAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		got, err := repo.ListByOwner(ctx, "owner-list")
		if err != nil {
			t.Fatalf("failed to list reminders: %v", err)
		}
		if len(got) != 2 || got[0].ID != first || got[1].ID != second {
			t.Errorf("ListByOwner order wrong: %+v", got)
		}
	})

	t.Run("Delete is owner-scoped and reports whether a row went away", func(t *testing.T) {
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-e", ChannelID: "chan-1", Message: "지워줘", DueAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		deleted, err := repo.Delete(ctx, id, "someone-else")
		if err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if deleted {
			t.Error("Delete removed a reminder for the wrong owner")
		}

		deleted, err = repo.Delete(ctx, id, "owner-e")
		if err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if !deleted {
			t.Error("Delete did not remove the owner's reminder")
		}

		deleted, err = repo.Delete(ctx, id, "owner-e")
		if err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if deleted {
			t.Error("Delete reported success for an already removed reminder")
		}
	})

	t.Run("Remove retires a reminder unconditionally", func(t *testing.T) {
		id, err := repo.Create(ctx, repository.Reminder{
			OwnerID: "owner-f", ChannelID: "chan-1", Message: "은퇴", DueAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to create reminder: %v", err)
		}

		if err := repo.Remove(ctx, id); err != nil {
			t.Fatalf("Remove returned error: %v", err)
		}

		got, err := repo.GetByID(ctx, id, "owner-f")
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if got != nil {
			t.Errorf("reminder survived Remove: %+v", got)
		}
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/daybreak-labs/remindbot/internal/config"
	"github.com/daybreak-labs/remindbot/internal/datalayer"
	"github.com/daybreak-labs/remindbot/internal/delivery"
	"github.com/daybreak-labs/remindbot/internal/dispatch"
	"github.com/daybreak-labs/remindbot/internal/handler"
	"github.com/daybreak-labs/remindbot/internal/repository"
)

func runBotForever() error {
	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			slog.Warn("No .env file found, continuing without it")
		} else {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresConfig, err := config.NewPostgresConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load postgres config: %w", err)
	}

	pool, err := datalayer.NewPostgresPool(ctx, postgresConfig.DSN())
	if err != nil {
		return fmt.Errorf("failed to create postgres pool: %w", err)
	}
	defer pool.Close()

	if err := datalayer.MigratePostgres(pool); err != nil {
		return fmt.Errorf("failed to migrate postgres: %w", err)
	}

	discordConfig, err := config.NewDiscordConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load discord config: %w", err)
	}

	schedulerConfig, err := config.NewSchedulerConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load scheduler config: %w", err)
	}
	loc := schedulerConfig.Location()

	repo := repository.NewPostgresReminderRepository(pool)

	session, err := handler.NewSession(discordConfig.Token, handler.Handlers{
		Ready:             handler.ReadyLog,
		InteractionCreate: handler.MakeInteractionCreateHandler(repo, loc),
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close session", "error", err)
		}
	}()

	if err := handler.EstablishCommands(session, discordConfig.GuildID); err != nil {
		return fmt.Errorf("failed to establish commands: %w", err)
	}

	sender := delivery.NewDiscordSender(session, loc)
	dispatcher, err := dispatch.New(repo, sender, dispatch.Config{
		TickCron:        schedulerConfig.TickCron,
		Location:        loc,
		DeliveryTimeout: schedulerConfig.DeliveryTimeout,
		RetryBackoff:    schedulerConfig.RetryBackoff,
	})
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	slog.Info("dispatch loop starting", "tickCron", schedulerConfig.TickCron)
	if err := dispatcher.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := runBotForever(); err != nil {
		log.Fatalf("failed to run bot: %v", err)
	}
}

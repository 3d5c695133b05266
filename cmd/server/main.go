package main

import (
	"context"
	"eventdispatch/internal/adapters/eventbus"
	"eventdispatch/internal/core/dispatch"
	"eventdispatch/internal/core/domain"
	"eventdispatch/internal/shared/config"
	"eventdispatch/internal/shared/logger"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// 3. Initialize the Event Bus
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	ctx := context.Background()

	// 4. Register listeners
	registrations := 0
	dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserRegistered) error {
		registrations++
		return nil
	})
	welcome := dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserRegistered) error {
		baseLogger.Info().
			Str("user_id", ev.UserID.String()).
			Str("first_name", ev.FirstName).
			Msg("Sending welcome message")
		return nil
	})

	verified := dispatch.For[domain.UserVerified](bus)
	verified.AddListener(func(ctx context.Context, ev *domain.UserVerified) error {
		baseLogger.Info().
			Str("user_id", ev.UserID.String()).
			Str("status", string(ev.Status)).
			Int64("moderator_id", ev.ModeratorID).
			Msg("User reviewed")
		return nil
	})

	// 5. Dispatch some events
	userID := uuid.New()
	first := &domain.UserRegistered{UserID: userID, TelegramID: 12345, FirstName: "Moein", At: time.Now()}
	if err := dispatch.Dispatch(ctx, bus, first); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to dispatch UserRegistered")
	}

	// The welcome listener is gone for the second registration.
	dispatch.RemoveListener(bus, welcome)
	second := &domain.UserRegistered{UserID: uuid.New(), TelegramID: 67890, FirstName: "Sara", At: time.Now()}
	if err := dispatch.Dispatch(ctx, bus, second); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to dispatch UserRegistered")
	}

	review := &domain.UserVerified{UserID: userID, Status: domain.VerificationLevel1, ModeratorID: 1, At: time.Now()}
	if err := verified.Dispatch(ctx, review); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to dispatch UserVerified")
	}

	// Nobody listens for deletions; this is a no-op.
	if err := dispatch.Dispatch(ctx, bus, &domain.UserDeleted{UserID: userID}); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to dispatch UserDeleted")
	}

	baseLogger.Info().Int("registrations", registrations).Msg("Demo finished")
	bus.Reset()
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"aoba/bot"
	"aoba/bot/features/osu"
	"aoba/config"
	"aoba/database"
	"aoba/events"
	"aoba/infrastructure"
	"aoba/repository"
	"aoba/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before connecting")
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting aoba...")

	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	databaseURL, err := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return err
	}

	if migrateOnStart {
		if err := database.MigrateUp(databaseURL); err != nil {
			return err
		}
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()

	if cfg.NATSURL != "" {
		natsClient, err := connectEventStream(ctx, cfg.NATSURL, eventBus)
		if err != nil {
			return err
		}
		defer natsClient.Close()
	}
	// Handlers still running on the bus finish before NATS and the pool close
	defer eventBus.Wait()

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	guildService := service.NewGuildService(uowFactory, cfg.DefaultPrefix)
	customCommandService := service.NewCustomCommandService(uowFactory)
	economyService := service.NewEconomyService(uowFactory)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:          cfg.DiscordToken,
		OwnerID:        cfg.OwnerID,
		StatusText:     cfg.StatusText,
		HelpWidth:      cfg.HelpWidth,
		HelpPageLength: cfg.HelpPageLength,
		Osu: osu.Config{
			ClientID:     cfg.OsuClientID,
			ClientSecret: cfg.OsuClientSecret,
			APIBaseURL:   cfg.OsuAPIURL,
			OAuthURL:     cfg.OsuOAuthURL,
		},
	}
	discordBot, err := bot.New(ctx, botConfig, guildService, customCommandService, economyService)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	case <-discordBot.Done():
		log.Info("Shutdown requested by owner")
	case runErr = <-discordBot.Fatal():
		log.WithError(runErr).Error("Bot failed after connecting")
	}

	closed := make(chan error, 1)
	go func() {
		closed <- discordBot.Close()
	}()

	select {
	case err := <-closed:
		if err != nil {
			log.WithError(err).Warn("Error closing Discord bot")
		}
		log.Info("Shutdown completed")
	case <-time.After(cfg.ShutdownTimeout):
		log.Warn("Shutdown timeout exceeded")
	}

	return runErr
}

// connectEventStream forwards every bus event to the NATS stream
func connectEventStream(ctx context.Context, url string, eventBus *events.Bus) (*infrastructure.NATSClient, error) {
	natsClient := infrastructure.NewNATSClient(url)
	if err := natsClient.Connect(ctx); err != nil {
		return nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := natsClient.EnsureStream(infrastructure.EventStreamName, mapper.Subjects()); err != nil {
		natsClient.Close()
		return nil, err
	}

	infrastructure.NewEventForwarder(natsClient, mapper).Attach(eventBus)
	log.WithField("url", url).Info("Forwarding events to NATS")
	return natsClient, nil
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opsvarejo/go-chamados-backend/internal/config"
	"github.com/opsvarejo/go-chamados-backend/internal/events"
	"github.com/opsvarejo/go-chamados-backend/internal/services"
	"github.com/opsvarejo/go-chamados-backend/internal/workspace"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one ticket synchronization pass and exit",
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	setupLogging(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	producer := events.NewProducer(events.ParseBrokers(cfg.Kafka.Brokers), cfg.Kafka.TicketTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Warn().Err(err).Msg("kafka producer close")
		}
	}()

	svc := &services.SyncService{
		DB:         db,
		Source:     workspace.NewClient(cfg.Workspace.APIURL, cfg.Workspace.Token, cfg.Workspace.Version),
		DatabaseID: cfg.Workspace.TicketsDB,
		Events:     producer,
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	run, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	log.Info().
		Str("run_id", run.ID).
		Int("count", run.Count).
		Dur("took", run.FinishedAt.Sub(run.StartedAt)).
		Msg("sync finished")
	return nil
}

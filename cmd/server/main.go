package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/goal-tracker-api/internal/config"
	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "goal-tracker",
		Short:         "Goal tracker API server and Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			a.log = logger.New(logger.Config{
				Level:    a.cfg.LogLevel,
				Encoding: a.cfg.LogEncoding,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newRunBotCmd(a),
		newMigrateCmd(a),
	)

	return root
}

// openDB connects and migrates. Every subcommand runs against an up to date schema.
func (a *app) openDB() (*gorm.DB, error) {
	db, err := database.Connect(a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateDatabase(db, a.log); err != nil {
		return nil, err
	}
	return db, nil
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.openDB(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			a.log.Info("database migrated")
			return nil
		},
	}
}

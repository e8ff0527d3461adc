package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dashspec/engine/internal/chat"
	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/pkg/config"
	"github.com/dashspec/engine/pkg/database"
	"github.com/dashspec/engine/pkg/logger"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// app carries what every subcommand needs. Tests replace open.
type app struct {
	open     func(ctx context.Context) (*repository.Gateway, error)
	editMode chat.EditMode
	copyMode string
}

func defaultApp() *app {
	a := &app{}
	a.open = func(ctx context.Context) (*repository.Gateway, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, err
		}
		a.editMode = chat.EditMode(cfg.EditCommandMode)
		a.copyMode = cfg.EnhancementCopyMode
		db, err := database.Open(ctx, database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL, Logger: log})
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return repository.NewGateway(db), nil
	}
	return a
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "specctl",
		Short:        "Dashboard specification tooling",
		Long:         "specctl migrates the database, runs requirement conversations in the terminal and exports specifications as Markdown.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newChatCmd(a))
	cmd.AddCommand(newExportCmd(a))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "specctl %s (commit: %s)\n", Version, Commit)
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := repository.Migrate(gw.DB()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(models.AllModels()))
			return nil
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	code := execute(newRootCmd(defaultApp()))
	logger.Sync()
	os.Exit(code)
}

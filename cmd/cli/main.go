package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/internal/config"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
	"github.com/SMUK0/RandomForest/pkg/postgres"
	"github.com/SMUK0/RandomForest/pkg/rf"
	"github.com/SMUK0/RandomForest/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	ctx    context.Context

	db    *postgres.DB
	model *rf.Model
}

var (
	env        string
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Appointment scheduler CLI - Propose appointment slots with a random-forest model",
		Long:  `A CLI tool for proposing psychotherapy appointment slots: scores patient/slot candidates with a pre-trained random-forest model and packs a conflict-free weekly schedule.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.db != nil {
					app.db.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: scheduler_config.yaml)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(predictSlotsCmd())
	rootCmd.AddCommand(listPatientsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger and config; the database and model are opened
// lazily by the commands that need them.
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Debug("Loading configuration")
	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	return nil
}

// database opens the connection pool on first use.
func (a *App) database() (*postgres.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	a.logger.Info("Connecting to database")
	db, err := postgres.NewDB(a.ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db
	return a.db, nil
}

// scoringModel loads the forest artifact on first use.
func (a *App) scoringModel() (*rf.Model, error) {
	if a.model != nil {
		return a.model, nil
	}

	a.logger.Info("Loading model artifact", zap.String("path", a.cfg.ModelArtifact))
	m, err := rf.Load(a.cfg.ModelArtifact)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifact: %w", err)
	}
	a.logger.Debug("Model loaded", zap.Int("trees", m.TreeCount()))
	a.model = m
	return a.model, nil
}

// slotConfig assembles the engine slot parameters from configuration.
func (a *App) slotConfig() scheduler.SlotConfig {
	return scheduler.SlotConfig{
		HourStart:    a.cfg.Scheduling.HourStart,
		HourEnd:      a.cfg.Scheduling.HourEnd,
		HorizonWeeks: a.cfg.Scheduling.HorizonWeeks,
	}
}

// limits assembles the packing caps from configuration.
func (a *App) limits() scheduler.Limits {
	return scheduler.Limits{
		MaxPerDay:  a.cfg.Scheduling.MaxPerDay,
		MaxPerWeek: a.cfg.Scheduling.MaxPerWeek,
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/parser"
	"github.com/noah-isme/teachmate/internal/repository"
	"github.com/noah-isme/teachmate/internal/service"
	"github.com/noah-isme/teachmate/pkg/cache"
	"github.com/noah-isme/teachmate/pkg/config"
	"github.com/noah-isme/teachmate/pkg/logger"
	"github.com/noah-isme/teachmate/pkg/storage"
)

// globalFlags override values loaded from the environment.
type globalFlags struct {
	dataFile string
	logLevel string
	logFile  string
}

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	snapshot *repository.SnapshotRepository
	metrics  *service.MetricsService
	session  *service.SessionService
}

func main() {
	var a *app
	root := newRootCmd(&a)
	err := root.Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The wired app is stored in *a by the
// persistent pre-run so the caller can close it.
func newRootCmd(a **app) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "teachmate",
		Short:         "Manage student records from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			wired, err := bootstrap(cmd.Context(), flags, cmd.ErrOrStderr())
			*a = wired
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).repl(cmd.Context(), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&flags.dataFile, "data", "", "roster data file (overrides DATA_FILE)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "log file, - for stderr (overrides LOG_FILE)")

	root.AddCommand(
		newExecCmd(a),
		newExportCmd(a),
		newSnapshotCmd(a),
	)
	return root
}

func bootstrap(ctx context.Context, flags *globalFlags, warn io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("snapshot cache unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}

	dataDir, dataName := filepath.Split(cfg.DataFile)
	if dataDir == "" {
		dataDir = "."
	}
	files, err := storage.NewLocalStorage(dataDir)
	if err != nil {
		_ = logr.Sync()
		return nil, fmt.Errorf("prepare data directory: %w", err)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	repo := repository.NewJSONRosterRepository(files, dataName, validator.New(), logr)
	snapshot := repository.NewSnapshotRepository(redisClient, cfg.Redis.Key, cfg.Redis.TTL, logr)
	session := service.NewSessionService(parser.New(), command.NewExecutor(logr), repo, snapshot, metrics, logr)

	a := &app{cfg: cfg, logger: logr, snapshot: snapshot, metrics: metrics, session: session}
	if err := session.Open(ctx); err != nil {
		fmt.Fprintf(warn, "Warning: %s. Starting with an empty roster.\n", err.Error())
	}
	logr.Info("session started", zap.String("session_id", session.ID()), zap.String("data_file", cfg.DataFile))
	return a, nil
}

func (f *globalFlags) apply(cfg *config.Config) {
	if f.dataFile != "" {
		cfg.DataFile = f.dataFile
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
}

func (a *app) close() {
	if a == nil {
		return
	}
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
	if err := a.snapshot.Close(); err != nil {
		a.logger.Warn("failed to close snapshot cache", zap.Error(err))
	}
	a.logger.Info("session ended", zap.String("session_id", a.session.ID()))
	_ = a.logger.Sync()
}

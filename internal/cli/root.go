// Package cli implements the paperdesk CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/config"
	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/store"
)

var (
	configPath   string
	dbPath       string
	storeBackend string
	formatFlag   string
	logLevel     string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "paperdesk",
	Short: "Document library and tabbed reader state",
	Long:  "A document reader core: library, tabs, and per-document page and zoom memory. SQLite-backed by default.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/paperdesk/paperdesk.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PAPERDESK_DB or ~/.paperdesk/paperdesk.db)")
	RootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend: sqlite, redis, memory")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// env is what a command needs to talk to persisted state.
type env struct {
	cfg   *config.Config
	log   *log.Logger
	store store.Store
}

func (e *env) Close() error {
	return e.store.Close()
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg
}

func openEnv(ctx context.Context) *env {
	cfg := loadConfig()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		exitErr("init logger", err)
	}

	s, err := store.Open(ctx, store.Options{
		Backend:     cfg.Store.Backend,
		Path:        cfg.Store.Path,
		RedisURL:    cfg.Store.RedisURL,
		RedisPrefix: cfg.Store.RedisPrefix,
	})
	if err != nil {
		exitErr("open store", err)
	}
	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.Store.Path)

	return &env{cfg: cfg, log: logger, store: s}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/config"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "addmath",
	Short: "SPM Additional Mathematics practice",
	Long:  "addmath is a terminal quiz app for SPM Additional Mathematics (Form 4 and Form 5) with LaTeX-style math rendering.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADDMATH_DB env var)")
	rootCmd.PersistentFlags().String("feed-url", "", "Question feed CSV URL (overrides ADDMATH_FEED_URL env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides ADDMATH_LOG_LEVEL env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ADDMATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return cfg, fmt.Errorf("resolve database path: %w", err)
	}
	cfg.DBPath = dbPath

	if cmd.Flags().Changed("feed-url") {
		cfg.FeedURL, _ = cmd.Flags().GetString("feed-url")
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if cfg.LogPath == "" {
		if cfg.LogPath, err = config.DefaultLogPath(); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

// env is what most commands need: configuration, a file logger and the
// question bank backed by the store.
type env struct {
	cfg   config.Config
	log   *logrus.Logger
	store *store.Store
	bank  *bank.Bank

	logFile io.Closer
}

// openEnv wires config, logging, store and bank. When load is set the bank
// is hydrated from the latest snapshot.
func openEnv(cmd *cobra.Command, load bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, logFile, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &env{
		cfg:   cfg,
		log:   log,
		store: st,
		bank: bank.New(st.SnapshotRepo(),
			bank.WithSequencer(st),
			bank.WithKeep(cfg.SnapshotKeep),
			bank.WithLogger(log),
		),
		logFile: logFile,
	}
	log.WithFields(logrus.Fields{"command": cmd.Name(), "db": cfg.DBPath}).Debug("command starting")

	if load {
		if _, err := e.bank.Load(commandContext(cmd)); err != nil {
			e.Close()
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}
	return e, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.WithError(err).Warn("close database")
	}
	e.logFile.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

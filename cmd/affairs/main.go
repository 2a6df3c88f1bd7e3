// Command affairs synchronizes the local personal-affairs database with
// the per-user cloud store and reports over the cached collections.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tangsl/personal-affairs/internal/cloud"
	"github.com/tangsl/personal-affairs/internal/config"
	"github.com/tangsl/personal-affairs/internal/credential"
	"github.com/tangsl/personal-affairs/internal/query"
	"github.com/tangsl/personal-affairs/internal/store"
	"github.com/tangsl/personal-affairs/internal/sync"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config file")
	flag.Parse()

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)

	command := "sync"
	if len(args) > 0 {
		command = args[0]
	}

	if command == "set-token" {
		if len(args) < 2 {
			return fmt.Errorf("usage: affairs set-token <token>")
		}
		if err := credential.Set(credential.TokenKey, args[1]); err != nil {
			return err
		}
		fmt.Println("token stored")
		return nil
	}

	s, err := store.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	queries := query.NewManager(s, time.Duration(cfg.Query.CacheTTLSec)*time.Second)

	switch command {
	case "sync":
		return runSync(cfg, s, queries, logger)
	case "dashboard":
		return runDashboard(queries)
	default:
		return fmt.Errorf("unknown command %q (want sync, dashboard or set-token)", command)
	}
}

func runSync(cfg *config.Config, s store.Store, queries *query.Manager, logger *slog.Logger) error {
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		return fmt.Errorf("no cloud token stored; run 'affairs set-token' first: %w", err)
	}

	session := cloud.StaticSession{ID: cfg.Cloud.UserID}
	client := cloud.NewClient(cfg.Cloud.BaseURL, token, session)
	engine := sync.New(s, client, session, logger)

	// Log coarse progress while the sync session runs.
	go func() {
		for status := range engine.Updates() {
			if status.Syncing {
				logger.Info("syncing", "progress", fmt.Sprintf("%.0f%%", status.Progress*100))
			}
		}
	}()

	outcome, err := engine.PerformFullSync(context.Background())
	if err != nil {
		return err
	}

	// The cached snapshot predates the sync; drop it.
	queries.Invalidate()

	fmt.Printf("sync completed in %s\n", outcome.Duration.Round(time.Millisecond))
	for _, name := range []string{
		cloud.CollectionProjects, cloud.CollectionTasks,
		cloud.CollectionFinancialRecords, cloud.CollectionBudgets,
		cloud.CollectionPasswords, cloud.CollectionVirtualAssets,
	} {
		fmt.Printf("  %-18s uploaded %3d  downloaded %3d\n",
			name, outcome.Uploaded[name], outcome.Downloaded[name])
	}
	return nil
}

func runDashboard(queries *query.Manager) error {
	snap, err := queries.Load(context.Background())
	if err != nil {
		return err
	}

	counts := snap.Counts()
	fmt.Printf("projects:  %d\n", counts.Projects)
	fmt.Printf("tasks:     %d (%d completed, %d pending)\n",
		counts.Tasks, snap.CompletedTasks(), snap.PendingTasks())
	fmt.Printf("records:   %d (income %.2f, expense %.2f)\n",
		counts.Records, snap.TotalIncome(), snap.TotalExpense())
	fmt.Printf("budgets:   %d\n", counts.Budgets)
	fmt.Printf("passwords: %d\n", counts.Credentials)
	fmt.Printf("assets:    %d\n", counts.Assets)
	return nil
}

// newLogger builds a slog logger from the configured level and format.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/forensicdesk/internal/config"
	"github.com/jask/forensicdesk/internal/database"
	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/keys"
	"github.com/jask/forensicdesk/internal/logging"
	"github.com/jask/forensicdesk/internal/roster"
	"github.com/jask/forensicdesk/internal/tui"
)

var (
	configPath string
	mode       string
)

var rootCmd = &cobra.Command{
	Use:   "forensicdesk",
	Short: "Forensic injury-assessment case desk",
	Long: `forensicdesk manages injury-assessment cases, the examiner roster and
evidence records in a terminal UI.

Data is seeded into an in-memory database on every launch; nothing is
written back.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $FORENSICDESK_CONFIG or ~/.config/forensicdesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Override the configured mode (production|development)")
	rootCmd.AddCommand(rosterCmd, keysCmd)
}

// env is everything a command needs once startup succeeded.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	db     *sql.DB
	seeds  repository.Seeds
	roster *roster.Store
	keys   *keys.Registry
}

func (e *env) Close() {
	_ = e.log.Sync()
	_ = e.db.Close()
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("FORENSICDESK_CONFIG", configPath); err != nil {
			return config.Config{}, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if mode != "" {
		cfg.Mode = mode
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, nil
}

func keyRegistry(cfg config.Config) (*keys.Registry, error) {
	reg := keys.NewRegistry()
	overrides := make([]keys.Override, 0, len(cfg.Keybindings))
	for _, kb := range cfg.Keybindings {
		overrides = append(overrides, keys.Override{Scope: kb.Scope, Action: kb.Action, Keys: kb.Keys})
	}
	if err := reg.ApplyOverrides(overrides); err != nil {
		return nil, fmt.Errorf("keybindings: %w", err)
	}
	return reg, nil
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	reg, err := keyRegistry(cfg)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenSeeded(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	seeds, err := repository.LoadSeeds(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load seeds: %w", err)
	}
	log.Info("seed loaded",
		zap.Int("examiners", len(seeds.Examiners)),
		zap.Int("injuries", len(seeds.Injuries)),
		zap.Int("evidence", len(seeds.Evidence)))
	return &env{
		cfg:    cfg,
		log:    log,
		db:     db,
		seeds:  seeds,
		roster: roster.New(seeds.Examiners, log.Named("roster")),
		keys:   reg,
	}, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(roster.WithStore(ctx, e.roster), tui.Deps{
		Config: e.cfg,
		Seeds:  e.seeds,
		Keys:   e.keys,
		Logger: e.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		e.log.Error("tui exited", zap.Error(err))
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

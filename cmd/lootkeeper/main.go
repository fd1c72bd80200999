package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lootkeeper/internal/config"
	"lootkeeper/internal/engine"
	"lootkeeper/internal/logging"
	"lootkeeper/internal/store"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	guildID string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lootkeeper",
	Short: "lootkeeper - action bundle execution and adaptive layout engine",
	Long: `lootkeeper is the core engine of a guild chat-bot: it renders
widget-based storefronts, inventories, and menus under the platform's hard
structural limits, and executes configured action bundles (grant items,
grant currency, show text, chain follow-ups) with per-child failure
isolation.

Surfaces are authored as YAML files; actor state lives in SQLite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		logCfg := cfg.Logging
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if guildID == "" {
			guildID = cfg.Engine.DefaultGuild
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// openEngine builds the engine over the configured catalog and state store.
// The returned cleanup closes the store.
func openEngine() (*engine.Engine, *store.Catalog, func(), error) {
	catalog, err := store.NewCatalog(cfg.Store.SurfacesDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load surfaces: %w", err)
	}
	state, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}
	eng := engine.New(catalog, state, logger)
	cleanup := func() {
		if err := state.Close(); err != nil {
			logger.Warn("failed to close state store", zap.Error(err))
		}
	}
	return eng, catalog, cleanup, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "lootkeeper.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&guildID, "guild", "", "Guild id (defaults to engine.default_guild)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

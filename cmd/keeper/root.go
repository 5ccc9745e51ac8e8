package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/config"
	"github.com/cory-johannsen/keeper/internal/game/dice"
	"github.com/cory-johannsen/keeper/internal/game/engine"
	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
	"github.com/cory-johannsen/keeper/internal/observability"
	"github.com/cory-johannsen/keeper/internal/scripting"
)

var rootCmd = &cobra.Command{
	Use:   "keeper",
	Short: "Percentile rules engine for investigators",
	Long: `keeper resolves percentile skill checks, bonus and penalty dice,
attacks with range and cover, damage and impales, and skill improvement.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs/dev.yaml", "path to configuration file; missing default file falls back to built-in defaults")
	rootCmd.PersistentFlags().Uint64("seed", 0, "seed for reproducible rolls (0 = crypto randomness)")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	roller  *dice.Roller
	keeper  *engine.Keeper
	weapons *inventory.Registry
	scripts *scripting.Manager
}

// newApp loads configuration and wires the engine for cmd.
//
// Postcondition: the caller must call close on the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	var src dice.Source = dice.NewCryptoSource()
	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		src = dice.NewSeededSource(seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	overflow, err := rules.ParseOverflowPolicy(cfg.Rules.D100Overflow)
	if err != nil {
		return nil, err
	}
	settings := engine.Settings{
		ImprovementCap: cfg.Rules.ImprovementCap,
		MarkOnSuccess:  cfg.Rules.MarkOnSuccess,
		Overflow:       overflow,
	}

	a := &app{cfg: cfg, logger: logger, roller: roller}
	var hooks engine.Hooks
	if cfg.Content.ScriptDir != "" {
		a.scripts = scripting.NewManager(roller, logger)
		if err := a.scripts.Load(cfg.Content.ScriptDir, cfg.Content.ScriptInstructionLimit); err != nil {
			a.close()
			return nil, err
		}
		hooks = a.scripts
	}
	a.keeper = engine.NewKeeper(roller, settings, hooks, logger)

	a.weapons, err = loadWeapons(cfg.Content.WeaponsDir, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.scripts != nil {
		a.scripts.Close()
	}
	_ = observability.Sync(a.logger)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadWeapons merges the weapons in dir over the built-in catalog. A missing
// directory leaves the built-ins alone.
func loadWeapons(dir string, logger *zap.Logger) (*inventory.Registry, error) {
	var extra []*inventory.WeaponDef
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			extra, err = inventory.LoadWeapons(dir)
			if err != nil {
				return nil, err
			}
		} else {
			logger.Debug("weapons dir not found; using built-in catalog", zap.String("dir", dir))
		}
	}
	return inventory.NewCatalogRegistry(extra)
}

// emit prints v as JSON when --json is set, else the text from format.
func emit(cmd *cobra.Command, v any, format func() string) error {
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, format())
	return err
}

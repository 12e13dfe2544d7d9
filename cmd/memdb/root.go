package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	memorydb "github.com/southvictor/memory-db"
	"github.com/southvictor/memory-db/internal/config"
	"github.com/southvictor/memory-db/internal/logging"
)

var (
	flagConfig     string
	flagRoot       string
	flagBackend    string
	flagFileName   string
	flagMaxBackups int
	flagLogLevel   string
	flagLogFormat  string
)

// cfg holds the configuration resolved by the root command before any
// subcommand runs.
var cfg *config.Config

var logger = logging.For("memdb")

var rootCmd = &cobra.Command{
	Use:   "memdb",
	Short: "Inspect and maintain memory databases",
	Long: `memdb works on a database directory holding a live file and its
timestamped backups. Records are key=value lines with JSON values, so the
database stays readable with ordinary tools; memdb adds safe edits, backup
management, and migration between storage engines.

Settings resolve in three layers: built-in defaults, then the TOML config
file (--config, default ~/.memdb.toml), then command-line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initRuntime()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "path to the TOML config file (default ~/.memdb.toml)")
	flags.StringVar(&flagRoot, "root", "", "database directory (default from config)")
	flags.StringVar(&flagBackend, "backend", "",
		`storage engine: "flatfile", "bolt", or "memory" (default from config)`)
	flags.StringVar(&flagFileName, "file-name", "", "live file name inside the root (default per backend)")
	flags.IntVar(&flagMaxBackups, "max-backups", 0, "how many timestamped backups to retain (default from config)")
	flags.StringVar(&flagLogLevel, "log-level", "", "log threshold: debug, info, warn, or error")
	flags.StringVar(&flagLogFormat, "log-format", "", "log output format: text or json")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initRuntime layers flags over the config file over defaults, then brings
// up logging. Flags left at their zero value defer to the config file.
func initRuntime() error {
	resolved, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagRoot != "" {
		resolved.Root = flagRoot
	}

	if flagBackend != "" {
		resolved.Backend = flagBackend
	}

	if flagFileName != "" {
		resolved.FileName = flagFileName
	}

	if flagMaxBackups != 0 {
		resolved.MaxBackups = flagMaxBackups
	}

	if flagLogLevel != "" {
		resolved.LogLevel = flagLogLevel
	}

	if flagLogFormat != "" {
		resolved.LogFormat = flagLogFormat
	}

	logging.Init(resolved.LogLevel, resolved.LogFormat)

	cfg = resolved
	logger.Debug("configuration resolved",
		"root", cfg.Root,
		"backend", cfg.Backend,
		"max_backups", cfg.MaxBackups)

	return nil
}

// openDB opens the configured database. The commands handle stored values
// as raw JSON so they work on any database regardless of what was put in it.
func openDB() (*memorydb.DB[json.RawMessage], error) {
	return memorydb.OpenWithCodec[json.RawMessage](cfg.Options(), memorydb.RawCodec{})
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/izposoja/internal/config"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// settings holds defaults, environment and flag bindings.
	settings = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "izposoja",
	Short: "Izposoja is a peer-to-peer equipment sharing server",
	Long: `Izposoja lets people list equipment they own and lend it to each
other. It serves a JSON API backed by SQLite.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./izposoja.yaml if present)")
	flags.StringP("db", "d", "izposoja.sqlite3", "SQLite database path")
	flags.StringP("addr", "a", ":8080", "listen address")
	flags.StringP("log", "l", "", "log file path (default: stdout/stderr only)")

	// Flags win over the config file and environment only when set.
	_ = settings.BindPFlag(config.KeyDB, flags.Lookup("db"))
	_ = settings.BindPFlag(config.KeyAddr, flags.Lookup("addr"))
	_ = settings.BindPFlag(config.KeyLogFile, flags.Lookup("log"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(settings, configFile)
}

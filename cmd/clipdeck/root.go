package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/clipdeck/config"
)

// version is set at build time via -ldflags
var version = "dev"

var rootFlags struct {
	configPath string
	debug      bool
	dataDir    string
	backend    string
	headless   bool
}

// Resolved by the persistent pre-run
var (
	appCfg  *config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "clipdeck",
	Short: "Terminal soundboard with nine triggers",
	Long: "clipdeck binds imported audio clips to three buttons times three gestures\n" +
		"(short press, long press, double tap) and plays them from the keyboard.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.PersistentPostRunE = closeLogging

	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.BoolVar(&rootFlags.debug, "debug", false, "write debug logs to the log directory")
	f.StringVar(&rootFlags.dataDir, "data-dir", "", "directory for documents and imported clips")
	f.StringVar(&rootFlags.backend, "backend", "", "document store: file, sqlite or memory")
	f.BoolVar(&rootFlags.headless, "headless", false, "never open the audio device")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(fireCmd)
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.Version = version
}

// loadConfig resolves file, env and flags, then installs logging
func loadConfig(cmd *cobra.Command, _ []string) error {
	// config init must work without a readable config
	if cmd == configInitCmd {
		return nil
	}

	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = rootFlags.debug
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = rootFlags.dataDir
	}
	if flags.Changed("backend") {
		cfg.Backend = rootFlags.backend
	}
	if flags.Changed("headless") {
		cfg.Headless = rootFlags.headless
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appCfg = cfg

	logDir = cfg.LogDir
	logFile = setupLogging(cfg.Debug)
	return nil
}

func closeLogging(*cobra.Command, []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

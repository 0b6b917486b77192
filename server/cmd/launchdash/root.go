package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/server/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultConfigPath = "config.yaml"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "launchdash",
		Short:         "SpaceX launch records dashboard",
		Long:          "launchdash serves an interactive dashboard of launch outcomes by site\nand payload mass, and prints the same charts as terminal tables.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", defaultConfigPath, "path to config file")

	root.AddCommand(newServeCmd(g))
	root.AddCommand(newSitesCmd(g))
	root.AddCommand(newPieCmd(g))
	root.AddCommand(newScatterCmd(g))
	return root
}

// loadConfig reads the config file. The default path may be absent; a path
// given explicitly with --config must exist.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	return config.Load(g.configPath, !cmd.Flags().Changed("config"))
}

// newLogger builds the process logger described by cfg. The returned
// LevelVar lets a config reload change the level in place.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h), level
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akashkhedar/datamanager/internal/config"
	"github.com/akashkhedar/datamanager/internal/datamanager"
	"github.com/akashkhedar/datamanager/internal/editor"
	"github.com/akashkhedar/datamanager/internal/notify"
	"github.com/akashkhedar/datamanager/internal/types"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "dmctl",
	Short: "Drive a labeling project from the command line",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(loadConfig().LogLevel)
	},
	SilenceUsage: true,
}

func init() {
	defaultPath := filepath.Join(os.Getenv("HOME"), ".dmctl", "config.yaml")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "config file path")
}

// loadConfig reads the config file, exiting on failure. Commands that can
// run without a valid config do not exist.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newManager builds a DataManager from the CLI config with a headless
// editor behind it.
func newManager(cfg *config.Config) (*datamanager.DataManager, error) {
	mode := types.ModeExplore
	if cfg.Mode == "labelstream" {
		mode = types.ModeLabelStream
	}

	var interfaces map[string]bool
	if len(cfg.Editor.Interfaces) > 0 {
		interfaces = make(map[string]bool, len(cfg.Editor.Interfaces))
		for _, name := range cfg.Editor.Interfaces {
			interfaces[name] = true
		}
	}

	return datamanager.New(datamanager.Config{
		Gateway: cfg.Gateway,
		Token:   cfg.Token,
		Project: types.ProjectID(cfg.Project),
		Mode:    mode,

		Interfaces:    interfaces,
		Toolbar:       cfg.Editor.Toolbar,
		Polling:       false,
		DraftComments: cfg.Comments.Drafts,

		Toast: types.ToastFunc(func(kind types.ToastKind, message string) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", kind, message)
		}),
		EditorFactory: func(opts editor.Options) (editor.Editor, error) {
			return editor.NewHeadless(opts), nil
		},
	})
}

// attachNotifier connects Telegram notifications for the session when a bot
// token is configured. The returned detach is a no-op otherwise; a failed
// bot handshake disables notifications rather than blocking labeling.
func attachNotifier(cfg *config.Config, dm *datamanager.DataManager) func() {
	if cfg.Telegram.Token == "" {
		return func() {}
	}
	n, err := notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		slog.Warn("telegram notifications disabled", "error", err)
		return func() {}
	}
	n.Attach(dm.Bus())
	return n.Detach
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

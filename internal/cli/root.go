// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/logging"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/session"
)

// Build information, set with -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ProviderFactory builds the model backend for a command.
type ProviderFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gemini.Provider, error)

// GeminiProvider is the production ProviderFactory.
func GeminiProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gemini.Provider, error) {
	client, err := gemini.NewClient(ctx, gemini.FromConfig(cfg.Model), gemini.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// app is the state shared by every command of one invocation.
type app struct {
	// Global flags
	configPath string
	model      string
	platform   string
	verbose    bool

	cfg         *config.Config
	logger      *zap.Logger
	newProvider ProviderFactory
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand(GeminiProvider).Execute()
}

// NewRootCommand builds the command tree. newProvider is called lazily by
// the commands that talk to Gemini.
func NewRootCommand(newProvider ProviderFactory) *cobra.Command {
	a := &app{newProvider: newProvider}

	root := &cobra.Command{
		Use:   "leoprime",
		Short: "LEO PRIME - neural interface terminal",
		Long: `LEO PRIME is a terminal chat client for Gemini with a live particle
field that tracks the state of the neural link.

Run without a subcommand to open the full-screen interface.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.leoprime/config.toml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "chat model override")
	root.PersistentFlags().StringVar(&a.platform, "platform", "", "device emulation: enterprise, android, ios, pc")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAskCmd(a),
		newChatCmd(a),
		newFieldCmd(a),
		newVisualCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := a.applyFlags(cfg); err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("failed to resolve log path: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Path:    logPath,
		Level:   cfg.Logging.Level,
		Verbose: a.verbose,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("command start",
		zap.String("command", cmd.CommandPath()),
		zap.String("model", cfg.Model.Chat),
		zap.String("platform", cfg.UI.Platform))
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loadConfig reads --config strictly. The default locations fall back to
// defaults with a warning when the file is broken.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFromPath(a.configPath)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v (using defaults)\n", WarningStyle.Render("[WARN]"), err)
	}
	return cfg, nil
}

// applyFlags layers --model and --platform over cfg.
func (a *app) applyFlags(cfg *config.Config) error {
	if a.model != "" {
		cfg.Model.Chat = a.model
	}
	if a.platform != "" {
		p, err := model.ParsePlatform(a.platform)
		if err != nil {
			return NewValidationErrorWithExample("--platform", a.platform, err.Error(), "leoprime --platform android")
		}
		cfg.UI.Platform = string(p)
	}
	return nil
}

// configFile is the file edits are written to and the TUI watches.
func (a *app) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := config.ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// provider builds the Gemini backend. A missing key maps to ErrNoProvider.
func (a *app) provider(ctx context.Context) (gemini.Provider, error) {
	p, err := a.newProvider(ctx, a.cfg, a.logger)
	if errors.Is(err, gemini.ErrNotConfigured) {
		return nil, ErrNoProvider
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect neural link: %w", err)
	}
	return p, nil
}

// newSession builds a session manager from the loaded config.
func (a *app) newSession() *session.Manager {
	sc := session.DefaultConfig()
	if p, err := model.ParsePlatform(a.cfg.UI.Platform); err == nil {
		sc.Platform = p
	}
	sc.ChatModel = a.cfg.Model.Chat
	sc.LogSize = a.cfg.UI.LogSize
	sc.IdleIntensity = a.cfg.Canvas.IdleIntensity
	sc.ActiveIntensity = a.cfg.Canvas.ActiveIntensity
	sc.Logger = a.logger
	return session.NewManager(sc)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/gemini"
)

// apiKeyField is masked by config get.
const apiKeyField = "model.api_key"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
		Long: `Inspect and edit configuration.

Values shown by show and get include environment overrides. set edits
the config file only, so keys supplied through the environment are
never written to disk.`,
	}
	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigGetCmd(a),
		newConfigSetCmd(a),
		newConfigPathCmd(a),
		newConfigKeysCmd(),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Redacted().Marshal(format)
			if err != nil {
				return NewValidationErrorWithExample("--format", format, err.Error(), "leoprime config show --format yaml")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, json or yaml")
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting by dotted key",
		Example: `  leoprime config get canvas.fps
  leoprime config get model.chat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			value, err := a.cfg.Get(key)
			if err != nil {
				return NewCommandError("config", "get", key, err)
			}
			if key == apiKeyField {
				value = gemini.MaskKey(a.cfg.Model.APIKey)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the config file",
		Long: `Change one setting in the config file.

Put "--" before the key when the value starts with a dash, otherwise it
is read as a flag.`,
		Example: `  leoprime config set canvas.fps 24`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]

			path, err := a.configFile()
			if err != nil {
				return NewCommandError("config", "set", "no config path", err)
			}
			cfg, err := config.LoadRaw(path)
			if err != nil {
				return NewCommandError("config", "set", "could not read "+path, err)
			}
			if err := cfg.Set(key, value); err != nil {
				return NewCommandError("config", "set", key, err)
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return NewCommandError("config", "set", key, err)
			}
			if err := config.SaveToPath(cfg, path); err != nil {
				return NewCommandError("config", "set", "could not write "+path, err)
			}

			a.logger.Info("config updated")
			shown := value
			if key == apiKeyField {
				shown = gemini.MaskKey(value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", SuccessStyle.Render("Set"), key, shown, path)
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		// the file may be the broken one being located
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "keys",
		Short:             "List every settable key",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range config.GetAllKeys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

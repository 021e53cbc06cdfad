// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/ui/chat"
)

// runTUI opens the full-screen interface and blocks until it exits.
func (a *app) runTUI(cmd *cobra.Command) error {
	sess := a.newSession()

	provider, err := a.provider(cmd.Context())
	switch {
	case errors.Is(err, ErrNoProvider):
		// The interface still runs; every directive reports the fault.
		a.logger.Warn("gemini not configured, running offline")
		sess.AddLog("[FAULT]: Neural link offline.")
	case err != nil:
		return err
	}

	m := chat.New(chat.Options{
		Session:  sess,
		Provider: provider,
		Config:   a.cfg,
		Logger:   a.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.SetSender(p)

	if w := a.watchConfig(m); w != nil {
		defer w.Close()
	}

	a.logger.Info("interface start", zap.String("platform", a.cfg.UI.Platform))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface failed: %w", err)
	}
	a.logger.Info("interface stop")
	return nil
}

// watchConfig reloads the config file into m while it runs. A watcher
// that cannot start only costs live reload.
func (a *app) watchConfig(m chat.Model) *config.Watcher {
	path, err := a.configFile()
	if err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		return nil
	}

	onChange := func(cfg *config.Config, err error) {
		if cfg != nil {
			// flags were validated at startup
			_ = a.applyFlags(cfg)
		}
		m.ConfigChanged(cfg, err)
	}
	w, err := config.NewWatcher(path, onChange, a.logger)
	if err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	if err := w.Watch(); err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		_ = w.Close()
		return nil
	}
	return w
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/util"
)

func newVisualCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "visual <subject...>",
		Short: "Synthesize a holographic visual and save it",
		Long: `Synthesize a holographic visual and save it.

Without --out the image goes to ~/.leoprime/visuals (or ui.visual_dir)
under a random name. The extension always follows the image type.`,
		Example: `  leoprime visual "orbital data core"
  leoprime visual --out core "orbital data core"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := util.CleanInput(strings.Join(args, " "))
			if subject == "" {
				return NewValidationErrorWithExample("subject", "", "must not be blank", `leoprime visual "orbital data core"`)
			}

			path := out
			if path == "" {
				dir, err := a.cfg.VisualPath()
				if err != nil {
					return NewCommandError("visual", "save", "no visual directory", err)
				}
				path = filepath.Join(dir, uuid.NewString())
			}

			provider, err := a.provider(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("[VISUAL]: Synthesizing holographic render..."))
			img, err := provider.Visual(ctx, subject)
			if err != nil {
				return NewCommandError("visual", "synthesize", "holographic synthesis failed", err)
			}
			saved, err := img.Save(strings.TrimSuffix(path, filepath.Ext(path)))
			if err != nil {
				return NewCommandError("visual", "save", "could not write image", err)
			}

			a.logger.Info("visual saved", zap.String("path", saved), zap.String("mime", img.MIMEType))
			fmt.Fprintln(cmd.OutOrStdout(), saved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (extension follows the image type)")
	return cmd
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	var analyze, plain bool

	cmd := &cobra.Command{
		Use:   "ask [directive...]",
		Short: "Send one directive and print the reply",
		Long: `Send one directive and print the reply.

On a terminal the reply is rendered as markdown. Piped output streams
plain text as it arrives. With no arguments the directive is read from
stdin.`,
		Example: `  leoprime ask "Simulate an interface evolution for an enterprise dashboard."
  git diff | leoprime ask --analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDirective(cmd, args)
			if err != nil {
				return err
			}
			return a.runAsk(cmd, input, analyze, !plain)
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", false, "also print the assimilation status")
	cmd.Flags().BoolVar(&plain, "plain", false, "never render markdown")
	return cmd
}

func (a *app) runAsk(cmd *cobra.Command, input string, analyze, markdown bool) error {
	provider, err := a.provider(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	rich := markdown && a.cfg.UI.Markdown && isTerminalWriter(out)

	sess := a.newSession()
	res, err := runDirective(ctx, sess, provider, input, out, !rich, analyze)
	finishReply(out, res, rich)
	return err
}

// readDirective joins args, or reads stdin when there are none.
func readDirective(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if isTerminalReader(in) {
		return "", NewValidationErrorWithExample("directive", "", "no directive given", `leoprime ask "status report"`)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-oriented chat REPL.
//
// Ctrl+C at the prompt leaves the REPL. Ctrl+C while a reply streams
// withdraws that directive only.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// inputReader reads one line of operator input.
type inputReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads the saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-oriented chat with input history",
		Long: `Line-oriented chat with input history.

Replies are analyzed when model.analyze_replies is set; /analyze
toggles it for the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.provider(cmd.Context())
			if err != nil {
				return err
			}
			if err := requireTTY(cmd.InOrStdin(), "run the chat REPL"); err != nil {
				return err
			}

			in := NewChatCLI()
			defer in.Close()

			r := newChatREPL(a, provider, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
			r.analyze = a.cfg.Model.AnalyzeReplies
			return r.run(cmd.Context())
		},
	}
}

// requireTTY fails unless in is an interactive terminal.
func requireTTY(in io.Reader, operation string) error {
	if !isTerminalReader(in) {
		return fmt.Errorf("stdin is not a terminal; cannot %s (use leoprime ask for piped input)", operation)
	}
	return nil
}

// =============================================================================
// REPL
// =============================================================================

type chatREPL struct {
	app      *app
	sess     *session.Manager
	provider gemini.Provider
	in       inputReader
	out      io.Writer
	errOut   io.Writer
	analyze  bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newChatREPL(a *app, provider gemini.Provider, in inputReader, out, errOut io.Writer) *chatREPL {
	return &chatREPL{
		app:      a,
		sess:     a.newSession(),
		provider: provider,
		in:       in,
		out:      out,
		errOut:   errOut,
	}
}

// run reads directives until /quit, EOF or Ctrl+C at the prompt.
func (r *chatREPL) run(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-sig:
				r.interrupt()
			case <-done:
				return
			}
		}
	}()

	r.printWelcome()
	for {
		input, err := r.in.ReadInput(PromptStyle.Render("leo> "))
		if err != nil {
			// liner.ErrPromptAborted, io.EOF or a closed terminal
			fmt.Fprintln(r.out)
			r.printExitSummary()
			return nil
		}

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case strings.HasPrefix(input, "/"):
			if !r.command(input) {
				r.printExitSummary()
				return nil
			}
		case strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit"):
			r.printExitSummary()
			return nil
		default:
			r.directive(ctx, input)
		}
	}
}

func (r *chatREPL) directive(ctx context.Context, input string) {
	ctx, cancel := context.WithCancel(ctx)
	r.setCancel(cancel)
	defer r.setCancel(nil)
	defer cancel()

	rich := r.app.cfg.UI.Markdown && isTerminalWriter(r.out)
	if rich {
		fmt.Fprintln(r.out, DimStyle.Render("Channeling neural pathways..."))
	}

	res, err := runDirective(ctx, r.sess, r.provider, input, r.out, !rich, r.analyze)
	finishReply(r.out, res, rich)
	switch {
	case errors.Is(err, ErrAborted):
		fmt.Fprintln(r.out, WarningStyle.Render("[ABORT]: Directive withdrawn by operator."))
	case err != nil:
		fmt.Fprintf(r.errOut, "%s %v\n", ErrorStyle.Render("[FAULT]:"), err)
	}
}

func (r *chatREPL) setCancel(fn context.CancelFunc) {
	r.mu.Lock()
	r.cancel = fn
	r.mu.Unlock()
}

// interrupt withdraws the directive in flight, if any.
func (r *chatREPL) interrupt() {
	r.mu.Lock()
	fn := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// command runs a slash command and reports whether the REPL continues.
func (r *chatREPL) command(input string) bool {
	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch name {
	case "quit", "q", "exit":
		return false
	case "help", "h", "?":
		r.printHelp()
	case "platform", "p":
		if len(args) == 0 {
			fmt.Fprintln(r.out, RenderKeyValue("Platform", r.sess.Platform().Label()))
			break
		}
		p, err := model.ParsePlatform(args[0])
		if err != nil {
			fmt.Fprintf(r.errOut, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
			break
		}
		r.sess.SetPlatform(p)
		fmt.Fprintln(r.out, SuccessStyle.Render("Interface migrating to "+p.Label()+" emulation."))
	case "status", "s":
		r.printStatus()
	case "analyze":
		r.analyze = !r.analyze
		state := "off"
		if r.analyze {
			state = "on"
		}
		fmt.Fprintln(r.out, RenderKeyValue("Analysis", state))
	case "clear", "c":
		r.sess.Clear()
		fmt.Fprintln(r.out, SuccessStyle.Render("Conversation buffer purged."))
	default:
		fmt.Fprintf(r.errOut, "%s Unknown command: /%s (try /help)\n", ErrorStyle.Render("[ERROR]"), name)
	}
	return true
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *chatREPL) printWelcome() {
	fmt.Fprintln(r.out, TitleStyle.Render("LEO PRIME // NEURAL INTERFACE"))
	fmt.Fprintln(r.out, RenderKeyValue("Model", gemini.FromConfig(r.app.cfg.Model).ChatModel))
	fmt.Fprintln(r.out, RenderKeyValue("Platform", r.sess.Platform().Label()))
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands. Ctrl+C cancels a reply, Ctrl+D exits."))
	fmt.Fprintln(r.out)
}

func (r *chatREPL) printHelp() {
	rows := [][2]string{
		{"/platform [p]", "show or switch device emulation"},
		{"/status", "node metrics and system log"},
		{"/analyze", "toggle the assimilation status"},
		{"/clear", "purge the conversation buffer"},
		{"/quit", "leave the REPL"},
	}
	fmt.Fprintln(r.out, TitleStyle.Render("Commands"))
	for _, row := range rows {
		fmt.Fprintln(r.out, RenderKeyValue(row[0], row[1]))
	}
}

func (r *chatREPL) printStatus() {
	evo := r.sess.Evolution()
	fmt.Fprintln(r.out, TitleStyle.Render("Node Status"))
	fmt.Fprintln(r.out, RenderKeyValue("Level", evo.Level))
	fmt.Fprintln(r.out, RenderKeyValue("Efficiency", fmt.Sprintf("%.1f%%", evo.Efficiency)))
	fmt.Fprintln(r.out, RenderKeyValue("Network Saturation", fmt.Sprintf("%.0f%%", evo.NetworkSaturation)))
	fmt.Fprintln(r.out, RenderKeyValue("Platform", evo.Platform.Label()))
	fmt.Fprintln(r.out, RenderSeparator())
	for _, entry := range r.sess.Log() {
		fmt.Fprintln(r.out, DimStyle.Render(entry))
	}
}

func (r *chatREPL) printExitSummary() {
	replies := 0
	for _, msg := range r.sess.Messages() {
		if msg.Role == model.RoleModel {
			replies++
		}
	}
	evo := r.sess.Evolution()
	fmt.Fprintf(r.out, "%s %d replies, saturation %.0f%%\n",
		DimStyle.Render("Neural link closed:"), replies, evo.NetworkSaturation)
}

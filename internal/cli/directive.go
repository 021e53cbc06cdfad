// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/session"
)

// ErrAborted is returned when the operator cancels a directive.
var ErrAborted = errors.New("directive withdrawn by operator")

// directiveResult is one completed exchange.
type directiveResult struct {
	Reply *model.Message
	// Raw is the provider text before the empty-reply fallback.
	Raw     string
	Summary string
}

// runDirective sends input through sess and provider. With stream set,
// tokens are written to out as they arrive. The session's loading flag is
// always lowered on return.
func runDirective(ctx context.Context, sess *session.Manager, provider gemini.Provider,
	input string, out io.Writer, stream, analyze bool) (directiveResult, error) {
	var res directiveResult

	req, err := sess.Begin(input)
	if err != nil {
		return res, err
	}
	defer sess.Finish()

	onToken := sess.Token
	if stream {
		onToken = func(token string) {
			sess.Token(token)
			_, _ = io.WriteString(out, token)
		}
	}

	text, err := provider.ChatStream(ctx, req.History, req.Prompt, onToken)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			sess.Abort()
			return res, ErrAborted
		}
		sess.Fail(err)
		return res, fmt.Errorf("directive failed: %w", err)
	}
	res.Raw = text
	res.Reply = sess.Complete(text)

	if !analyze {
		return res, nil
	}
	summary, err := provider.Analyze(ctx, req.Input)
	if err != nil {
		sess.Fail(err)
		return res, fmt.Errorf("analysis failed: %w", err)
	}
	sess.RecordAnalysis(summary)
	res.Summary = summary
	return res, nil
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders content for a terminal of the given width.
// Returns the original content if rendering fails.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, MinTerminalWidth)),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// finishReply completes the output of a directive. Rich output renders
// the reply now; streamed output only needs the fallback or a newline.
func finishReply(out io.Writer, res directiveResult, rich bool) {
	if res.Reply == nil {
		return
	}
	switch {
	case rich:
		writeReply(out, res.Reply.Content, true)
	case strings.TrimSpace(res.Raw) == "":
		// the fallback was never streamed
		fmt.Fprintln(out, res.Reply.Content)
	case !strings.HasSuffix(res.Raw, "\n"):
		fmt.Fprintln(out)
	}
	if res.Summary != "" {
		writeSummary(out, res.Summary)
	}
}

// writeReply prints a finished reply. Markdown is only rendered for
// terminals so piped output stays clean.
func writeReply(out io.Writer, content string, markdown bool) {
	if markdown && isTerminalWriter(out) {
		w, _ := terminalSize(out)
		fmt.Fprint(out, renderMarkdown(content, w))
		return
	}
	fmt.Fprintln(out, content)
}

// writeSummary prints the assimilation status line.
func writeSummary(out io.Writer, summary string) {
	fmt.Fprintf(out, "\n%s %s\n", TitleStyle.Render("ASSIMILATION STATUS:"), summary)
}

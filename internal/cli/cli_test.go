// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/canvas"
	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

type fakeProvider struct {
	mu sync.Mutex

	tokens     []string
	reply      string
	err        error
	summary    string
	analyzeErr error
	img        *gemini.Image
	visualErr  error

	prompts  []string
	analyzed []string
	subjects []string
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []*model.Message, prompt string, onToken func(string)) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	tokens := f.tokens
	if len(tokens) == 0 && f.reply != "" {
		// a real stream always delivers the reply through onToken
		tokens = []string{f.reply}
	}
	for _, tok := range tokens {
		onToken(tok)
	}
	return f.reply, nil
}

func (f *fakeProvider) Analyze(ctx context.Context, interaction string) (string, error) {
	f.mu.Lock()
	f.analyzed = append(f.analyzed, interaction)
	f.mu.Unlock()
	return f.summary, f.analyzeErr
}

func (f *fakeProvider) Visual(ctx context.Context, subject string) (*gemini.Image, error) {
	f.mu.Lock()
	f.subjects = append(f.subjects, subject)
	f.mu.Unlock()
	return f.img, f.visualErr
}

func with(p gemini.Provider) ProviderFactory {
	return func(context.Context, *config.Config, *zap.Logger) (gemini.Provider, error) {
		return p, nil
	}
}

func offline(context.Context, *config.Config, *zap.Logger) (gemini.Provider, error) {
	return nil, gemini.ErrNotConfigured
}

// isolate points the config dir at a temp dir and clears key env vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LEO_HOME", dir)
	for _, name := range []string{"LEO_API_KEY", "GEMINI_API_KEY", "API_KEY", "LEO_MODEL", "LEO_PLATFORM", "LEO_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	return dir
}

// execute runs the root command and captures stdout and stderr.
func execute(t *testing.T, factory ProviderFactory, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(factory)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// =============================================================================
// ROOT AND GLOBAL FLAGS
// =============================================================================

func TestVersion(t *testing.T) {
	out, _, err := execute(t, offline, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "leoprime dev (commit unknown"), out)
}

func TestGlobalFlags_InvalidPlatform(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, offline, "", "--platform", "toaster", "config", "show")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "--platform", verr.Field)
}

func TestGlobalFlags_Overrides(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, offline, "", "--model", "gemini-test", "config", "get", "model.chat")
	require.NoError(t, err)
	assert.Equal(t, "gemini-test\n", out)

	out, _, err = execute(t, offline, "", "--platform", "IOS", "config", "get", "ui.platform")
	require.NoError(t, err)
	assert.Equal(t, "ios\n", out)
}

func TestSetup_WritesLogFile(t *testing.T) {
	dir := isolate(t)
	_, _, err := execute(t, offline, "", "-v", "config", "show")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "leoprime.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command start"`)
}

func TestSetup_BrokenDefaultConfigWarns(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[canvas]\nfps = 999\n"), 0600))

	out, errOut, err := execute(t, offline, "", "config", "get", "canvas.fps")
	require.NoError(t, err)
	assert.Equal(t, "30\n", out, "defaults replace the broken file")
	assert.Contains(t, errOut, "[WARN]")
}

func TestSetup_BrokenExplicitConfigFails(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nfps = 999\n"), 0600))

	_, _, err := execute(t, offline, "", "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas.fps")
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_StreamsPlainWhenPiped(t *testing.T) {
	isolate(t)
	p := &fakeProvider{tokens: []string{"Neural ", "link ", "stable."}, reply: "Neural link stable."}

	out, _, err := execute(t, with(p), "", "ask", "status", "report")
	require.NoError(t, err)
	assert.Equal(t, "Neural link stable.\n", out)

	require.Len(t, p.prompts, 1)
	assert.Equal(t, session.DecoratePrompt(model.PlatformEnterprise, "status report"), p.prompts[0])
	assert.Empty(t, p.analyzed, "analysis is off by default")
}

func TestAsk_PlatformFlagTagsPrompt(t *testing.T) {
	isolate(t)
	p := &fakeProvider{reply: "ok"}

	_, _, err := execute(t, with(p), "", "--platform", "android", "ask", "ping")
	require.NoError(t, err)
	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], model.PlatformAndroid.Label())
}

func TestAsk_ReadsStdin(t *testing.T) {
	isolate(t)
	p := &fakeProvider{reply: "ok"}

	_, _, err := execute(t, with(p), "  scan the core \n", "ask")
	require.NoError(t, err)
	require.Len(t, p.prompts, 1)
	assert.True(t, strings.HasSuffix(p.prompts[0], "scan the core"), p.prompts[0])
}

func TestAsk_BlankDirective(t *testing.T) {
	isolate(t)
	p := &fakeProvider{reply: "ok"}

	_, _, err := execute(t, with(p), "   ", "ask")
	require.ErrorIs(t, err, session.ErrEmptyInput)
	assert.Empty(t, p.prompts)
}

func TestAsk_Analyze(t *testing.T) {
	isolate(t)
	p := &fakeProvider{tokens: []string{"done"}, reply: "done", summary: "Directive assimilated."}

	out, _, err := execute(t, with(p), "", "ask", "--analyze", "deep", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "ASSIMILATION STATUS:")
	assert.Contains(t, out, "Directive assimilated.")
	assert.Equal(t, []string{"deep scan"}, p.analyzed)
}

func TestAsk_EmptyReplyPrintsFallback(t *testing.T) {
	isolate(t)
	p := &fakeProvider{reply: ""}

	out, _, err := execute(t, with(p), "", "ask", "hello")
	require.NoError(t, err)
	assert.Equal(t, session.ReplyFallback+"\n", out)
}

func TestAsk_Offline(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, offline, "", "ask", "hello")
	require.ErrorIs(t, err, ErrNoProvider)
}

func TestAsk_ProviderError(t *testing.T) {
	isolate(t)
	boom := errors.New("upstream 500")
	p := &fakeProvider{err: boom}

	out, _, err := execute(t, with(p), "", "ask", "hello")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "directive failed")
	assert.Empty(t, out)
}

func TestAsk_AnalysisError(t *testing.T) {
	isolate(t)
	boom := errors.New("analysis down")
	p := &fakeProvider{reply: "ok", analyzeErr: boom}

	out, _, err := execute(t, with(p), "", "ask", "--analyze", "hello")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "ok\n", out, "the reply is still printed")
}

// =============================================================================
// VISUAL
// =============================================================================

func TestVisual_SavesToOut(t *testing.T) {
	isolate(t)
	p := &fakeProvider{img: &gemini.Image{Data: []byte("png-bytes"), MIMEType: "image/png"}}
	dest := filepath.Join(t.TempDir(), "core.jpg")

	out, _, err := execute(t, with(p), "", "visual", "--out", dest, "orbital", "core")
	require.NoError(t, err)

	want := strings.TrimSuffix(dest, ".jpg") + ".png"
	assert.Equal(t, want+"\n", out)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, []string{"orbital core"}, p.subjects)
}

func TestVisual_DefaultDir(t *testing.T) {
	dir := isolate(t)
	p := &fakeProvider{img: &gemini.Image{Data: []byte{1}, MIMEType: "image/jpeg"}}

	out, _, err := execute(t, with(p), "", "visual", "nebula")
	require.NoError(t, err)

	saved := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "visuals"), filepath.Dir(saved))
	assert.Equal(t, ".jpg", filepath.Ext(saved))
	assert.FileExists(t, saved)
}

func TestVisual_Failure(t *testing.T) {
	isolate(t)
	p := &fakeProvider{visualErr: gemini.ErrNoImage}

	_, _, err := execute(t, with(p), "", "visual", "nebula")
	require.ErrorIs(t, err, gemini.ErrNoImage)

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "synthesize", cerr.Action)
}

func TestVisual_BlankSubject(t *testing.T) {
	isolate(t)
	p := &fakeProvider{}

	_, _, err := execute(t, with(p), "", "visual", "   ")
	require.Error(t, err)
	assert.Empty(t, p.subjects)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigShow_Formats(t *testing.T) {
	isolate(t)
	t.Setenv("LEO_API_KEY", "secret-key-1234")

	tests := []struct {
		format string
		want   string
	}{
		{"toml", "[canvas]"},
		{"json", `"canvas": {`},
		{"yaml", "canvas:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := execute(t, offline, "", "config", "show", "--format", tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "[REDACTED]")
			assert.NotContains(t, out, "secret-key-1234")
		})
	}
}

func TestConfigShow_UnknownFormat(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, offline, "", "config", "show", "--format", "xml")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "--format", verr.Field)
}

func TestConfigGet_MasksKey(t *testing.T) {
	isolate(t)
	t.Setenv("LEO_API_KEY", "secret-key-1234")

	out, _, err := execute(t, offline, "", "config", "get", "model.api_key")
	require.NoError(t, err)
	assert.Equal(t, "********1234\n", out)
}

func TestConfigGet_UnknownKey(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, offline, "", "config", "get", "canvas.nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestConfigSet_WritesFileWithoutEnvSecrets(t *testing.T) {
	dir := isolate(t)
	t.Setenv("LEO_API_KEY", "secret-key-1234")

	out, _, err := execute(t, offline, "", "config", "set", "canvas.fps", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "canvas.fps = 12")

	path := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fps = 12")
	assert.NotContains(t, string(data), "secret-key-1234")

	out, _, err = execute(t, offline, "", "config", "get", "canvas.fps")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}

func TestConfigSet_KeepsExplicitFormat(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "leo.yaml")

	_, _, err := execute(t, offline, "", "--config", path, "config", "set", "ui.platform", "pc")
	// the explicit file does not exist yet
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("ui:\n  platform: ios\n"), 0600))
	_, _, err = execute(t, offline, "", "--config", path, "config", "set", "ui.platform", "pc")
	require.NoError(t, err)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "pc", cfg.UI.Platform)
}

func TestConfigSet_RejectsInvalid(t *testing.T) {
	dir := isolate(t)

	// "--" keeps cobra from reading -3 as a shorthand flag
	_, _, err := execute(t, offline, "", "config", "set", "--", "canvas.fps", "-3")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "unknown shorthand flag")
	assert.Contains(t, err.Error(), "canvas.fps: must be between 1 and 120, got -3")
	assert.NoFileExists(t, filepath.Join(dir, "config.toml"))

	_, _, err = execute(t, offline, "", "config", "set", "canvas.fps", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas.fps")
	assert.NoFileExists(t, filepath.Join(dir, "config.toml"))
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)

	out, _, err := execute(t, offline, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{}"), 0600))
	out, _, err = execute(t, offline, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json")+"\n", out)

	out, _, err = execute(t, offline, "", "--config", "/tmp/x.yaml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.yaml\n", out)
}

func TestConfigKeys(t *testing.T) {
	out, _, err := execute(t, offline, "", "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "canvas.fps\n")
	assert.Contains(t, out, "model.api_key\n")
}

// =============================================================================
// FIELD
// =============================================================================

func TestField_PipedPrintsLastFrame(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, offline, "", "field", "--duration", "80ms", "--size", "20x4", "--fps", "60")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
}

func TestHaltField_WhileResizing(t *testing.T) {
	for i := 0; i < 20; i++ {
		raster := canvas.NewRaster(20, 5)
		sched := canvas.NewTickerScheduler(1000)
		anim := canvas.NewAnimator(sched)

		// mirrors runField: paint resizes the raster every frame
		var n int
		var paint func(time.Time)
		paint = func(time.Time) {
			n++
			raster.Resize(20+n%3, 5)
			sched.RequestFrame(paint)
		}
		anim.Start(raster, 1)
		sched.RequestFrame(paint)
		time.Sleep(5 * time.Millisecond)

		haltField(sched, anim)
		assert.False(t, anim.Running())

		frames := anim.Frames()
		raster.Resize(30, 5)
		time.Sleep(2 * time.Millisecond)
		assert.Equal(t, frames, anim.Frames(), "no frames after halt")
	}
}

func TestField_InvalidFlags(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, offline, "", "field", "--intensity", "1.5")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "--intensity", verr.Field)

	_, _, err = execute(t, offline, "", "field", "--size", "wide")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "--size", verr.Field)
}

// =============================================================================
// CHAT REPL
// =============================================================================

// scriptedInput replays lines, then reports EOF.
type scriptedInput struct {
	lines []string
	// before runs ahead of each read with the index of the line.
	before func(i int)
	n      int
}

func (s *scriptedInput) ReadInput(string) (string, error) {
	if s.before != nil {
		s.before(s.n)
	}
	if s.n >= len(s.lines) {
		return "", errors.New("EOF")
	}
	line := s.lines[s.n]
	s.n++
	return line, nil
}

func newTestApp() *app {
	return &app{cfg: config.Default(), logger: zap.NewNop()}
}

func TestChatREPL_Session(t *testing.T) {
	p := &fakeProvider{tokens: []string{"Acknowledged."}, reply: "Acknowledged.", summary: "Stable."}
	in := &scriptedInput{lines: []string{
		"/platform android",
		"run diagnostics",
		"/analyze",
		"again",
		"/status",
		"/bogus",
		"/quit",
	}}
	var out, errOut bytes.Buffer
	r := newChatREPL(newTestApp(), p, in, &out, &errOut)

	require.NoError(t, r.run(context.Background()))

	assert.Equal(t, model.PlatformAndroid, r.sess.Platform())
	require.Len(t, p.prompts, 2)
	assert.Equal(t, session.DecoratePrompt(model.PlatformAndroid, "run diagnostics"), p.prompts[0])
	assert.Equal(t, []string{"again"}, p.analyzed, "only after /analyze")

	text := out.String()
	assert.Contains(t, text, "LEO PRIME // NEURAL INTERFACE")
	assert.Contains(t, text, "Acknowledged.\n")
	assert.Contains(t, text, "ASSIMILATION STATUS:")
	assert.Contains(t, text, "[ANALYSIS]: Stable.")
	assert.Contains(t, text, "2 replies")
	assert.Contains(t, errOut.String(), "Unknown command: /bogus")
}

func TestChatREPL_ClearAndExitWord(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	in := &scriptedInput{lines: []string{"hello", "/clear", "exit", "never read"}}
	var out bytes.Buffer
	r := newChatREPL(newTestApp(), p, in, &out, &out)

	require.NoError(t, r.run(context.Background()))
	assert.Empty(t, r.sess.Messages())
	assert.Equal(t, 3, in.n)
	assert.Contains(t, out.String(), "0 replies")
}

func TestChatREPL_FaultKeepsRunning(t *testing.T) {
	p := &fakeProvider{err: errors.New("link severed")}
	in := &scriptedInput{lines: []string{"hello", "/quit"}}
	var out, errOut bytes.Buffer
	r := newChatREPL(newTestApp(), p, in, &out, &errOut)

	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, errOut.String(), "[FAULT]:")
	assert.Contains(t, errOut.String(), "link severed")
	assert.False(t, r.sess.Loading())
	assert.Contains(t, r.sess.Log()[0], "[FAULT]")
}

// blockingProvider streams until its context ends.
type blockingProvider struct {
	fakeProvider
	started chan struct{}
}

func (b *blockingProvider) ChatStream(ctx context.Context, _ []*model.Message, _ string, onToken func(string)) (string, error) {
	onToken("partial ")
	close(b.started)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestChatREPL_InterruptWithdrawsDirective(t *testing.T) {
	p := &blockingProvider{started: make(chan struct{})}
	in := &scriptedInput{lines: []string{"long task", "/quit"}}
	var out bytes.Buffer
	r := newChatREPL(newTestApp(), p, in, &out, &out)

	go func() {
		<-p.started
		r.interrupt()
	}()

	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, out.String(), "[ABORT]: Directive withdrawn by operator.")
	assert.Contains(t, r.sess.Log()[0], "[ABORT]")
	for _, msg := range r.sess.Messages() {
		assert.NotEqual(t, model.RoleModel, msg.Role, "the partial reply is dropped")
	}
}

func TestChat_RequiresTerminal(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, with(&fakeProvider{}), "", "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")
}

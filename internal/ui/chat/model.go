// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/session"
	"github.com/jeranaias/leoprime/internal/ui/components"
	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// noticeTTL is how long a status bar notice stays up.
const noticeTTL = 4 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Options configures New. Session and Config are required; a nil Provider
// makes every directive fail with gemini.ErrNotConfigured.
type Options struct {
	Session  *session.Manager
	Provider gemini.Provider
	Config   *config.Config
	Theme    *styles.Theme
	Logger   *zap.Logger
}

// Model is the Bubble Tea model of the chat interface.
type Model struct {
	cfg      *config.Config
	sess     *session.Manager
	provider gemini.Provider
	theme    *styles.Theme
	keys     KeyMap
	logger   *zap.Logger

	// Components
	header     *components.Header
	sidebar    *components.Sidebar
	dashboard  *components.Dashboard
	chrome     *components.Chrome
	welcome    *components.Welcome
	thinking   *components.Thinking
	status     *components.StatusBar
	transcript *components.Transcript
	field      *Field
	viewport   viewport.Model
	input      textinput.Model

	// Shared across Update copies
	cancelMgr    *cancelManager
	visualCancel *cancelManager
	sender       *senderRef

	// Directive state
	reqID         uint64
	reqCtx        context.Context
	visualPending bool

	// Layout
	width, height int
	mainWidth     int
	bodyHeight    int
	showSidebar   bool
	follow        bool

	noticeSeq int
	quitting  bool
}

// New creates the chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tui")

	input := textinput.New()
	input.Prompt = theme.InputPrompt.Render("> ")
	input.Placeholder = "Issue directive to LEO..."
	input.CharLimit = 4000
	input.Focus()

	transcript := components.NewTranscript(theme)
	transcript.Markdown = cfg.UI.Markdown

	dash := components.NewDashboard(theme)
	dash.ModelName = model.DisplayName(cfg.Model.Chat)

	m := Model{
		cfg:          cfg,
		sess:         opts.Session,
		provider:     opts.Provider,
		theme:        theme,
		keys:         DefaultKeyMap(),
		logger:       logger,
		header:       components.NewHeader(theme),
		sidebar:      components.NewSidebar(theme),
		dashboard:    dash,
		chrome:       components.NewChrome(theme),
		welcome:      components.NewWelcome(theme),
		thinking:     components.NewThinking(theme),
		status:       components.NewStatusBar(theme),
		transcript:   transcript,
		field:        NewField(cfg.Canvas, theme.IsDark, logger),
		viewport:     viewport.New(80, 10),
		input:        input,
		cancelMgr:    newCancelManager(),
		visualCancel: newCancelManager(),
		sender:       &senderRef{},
		reqCtx:       context.Background(),
		follow:       true,
	}
	m.sess.SetIntensities(cfg.Canvas.IdleIntensity, cfg.Canvas.ActiveIntensity)
	m.field.SetIntensity(m.sess.Intensity())
	m.sync()
	return m
}

// SetSender connects the model to its program so streamed tokens and
// config reloads can be delivered. Call it before Run.
func (m Model) SetSender(s Sender) {
	m.sender.set(s)
}

// ConfigChanged forwards a config watcher callback into the program.
func (m Model) ConfigChanged(cfg *config.Config, err error) {
	m.sender.send(ConfigReloadMsg{Config: cfg, Err: err})
}

// Init starts the input cursor and the frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.field.Tick())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case FrameMsg:
		m.field.Frame(msg.Time)
		m.header.Pulse = int(msg.Time.UnixMilli() / styles.PulseSpinner.Duration().Milliseconds())
		if m.quitting {
			return m, nil
		}
		return m, m.field.Tick()

	case spinner.TickMsg:
		if !m.sess.Loading() {
			return m, nil
		}
		return m, m.thinking.Update(msg)

	case StreamTokenMsg:
		if msg.ID == m.reqID && m.sess.Loading() {
			m.sess.Token(msg.Token)
			m.refresh()
		}
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case AnalysisMsg:
		return m.handleAnalysis(msg)

	case VisualMsg:
		return m.handleVisual(msg)

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case ClearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.status.ClearNotice()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Cancel):
		if m.sess.Loading() {
			return m.abort()
		}
		if m.sess.Dashboard() {
			m.sess.ToggleDashboard()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Dashboard):
		m.sess.ToggleDashboard()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		m.follow = false
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		if isCommand(text) {
			return m.handleCommand(text)
		}
		return m.submit(text)
	}

	for i, b := range m.keys.Platform {
		if key.Matches(msg, b) {
			return m.switchPlatform(model.Platforms[i])
		}
	}
	for i, b := range m.keys.Directive {
		if key.Matches(msg, b) && i < len(session.QuickDirectives) {
			return m.submit(session.QuickDirectives[i].Prompt)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// DIRECTIVE LIFECYCLE
// =============================================================================

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	req, err := m.sess.Begin(text)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		return m, nil
	case errors.Is(err, session.ErrBusy):
		cmd := m.notify("Directive already in flight", true)
		return m, cmd
	case err != nil:
		cmd := m.notify(err.Error(), true)
		return m, cmd
	}

	m.input.Reset()
	m.reqID++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)
	m.reqCtx = ctx
	m.follow = true
	m.field.SetIntensity(m.sess.Intensity())
	m.refresh()

	return m, tea.Batch(m.thinking.Start(req.Started), m.chatCmd(ctx, m.reqID, req))
}

func (m Model) chatCmd(ctx context.Context, id uint64, req session.Request) tea.Cmd {
	provider, ref := m.provider, m.sender
	return func() tea.Msg {
		if provider == nil {
			return ReplyMsg{ID: id, Input: req.Input, Err: gemini.ErrNotConfigured}
		}
		onToken, drain := tokenSink(ref, id)
		text, err := provider.ChatStream(ctx, req.History, req.Prompt, onToken)
		drain()
		return ReplyMsg{ID: id, Input: req.Input, Text: text, Err: err}
	}
}

func (m Model) analysisCmd(ctx context.Context, id uint64, input string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		summary, err := provider.Analyze(ctx, input)
		return AnalysisMsg{ID: id, Summary: summary, Err: err}
	}
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.reqID || !m.sess.Loading() {
		return m, nil
	}
	if msg.Err != nil {
		m.sess.Fail(msg.Err)
		m.finish()
		cmd := m.notify(faultNotice(msg.Err), true)
		return m, cmd
	}

	m.sess.Complete(msg.Text)
	if !m.cfg.Model.AnalyzeReplies || m.provider == nil {
		m.finish()
		return m, nil
	}
	m.refresh()
	return m, m.analysisCmd(m.reqCtx, msg.ID, msg.Input)
}

func (m Model) handleAnalysis(msg AnalysisMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.reqID || !m.sess.Loading() {
		return m, nil
	}
	var cmd tea.Cmd
	if msg.Err != nil {
		m.sess.Fail(msg.Err)
		cmd = m.notify(faultNotice(msg.Err), true)
	} else {
		m.sess.RecordAnalysis(msg.Summary)
	}
	m.finish()
	return m, cmd
}

// abort withdraws the in-flight directive. The request ID moves on so a
// late reply is dropped.
func (m Model) abort() (tea.Model, tea.Cmd) {
	m.cancelMgr.cancel()
	m.reqID++
	m.sess.Abort()
	m.sess.Finish()
	m.field.SetIntensity(m.sess.Intensity())
	m.refresh()
	cmd := m.notify("Directive withdrawn", false)
	return m, cmd
}

func (m *Model) finish() {
	m.cancelMgr.cancel()
	m.sess.Finish()
	m.field.SetIntensity(m.sess.Intensity())
	m.refresh()
}

func faultNotice(err error) string {
	switch {
	case errors.Is(err, gemini.ErrNotConfigured):
		return "Neural link offline: set LEO_API_KEY or model.api_key"
	case errors.Is(err, context.DeadlineExceeded):
		return "Neural link timed out"
	default:
		return "Neural link error: " + err.Error()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancelMgr.cancel()
	m.visualCancel.cancel()
	m.field.Stop()
	return m, tea.Quit
}

// =============================================================================
// STATE CHANGES
// =============================================================================

func (m Model) switchPlatform(p model.Platform) (tea.Model, tea.Cmd) {
	m.sess.SetPlatform(p)
	m.refresh()
	return m, nil
}

func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil || msg.Config == nil {
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		cmd := m.notify("Config reload rejected, keeping current settings", true)
		return m, cmd
	}

	cfg := msg.Config
	m.cfg = cfg
	m.sess.SetIntensities(cfg.Canvas.IdleIntensity, cfg.Canvas.ActiveIntensity)
	m.field.Configure(cfg.Canvas)
	m.field.SetIntensity(m.sess.Intensity())
	m.transcript.Markdown = cfg.UI.Markdown
	m.transcript.Reset()
	m.dashboard.ModelName = model.DisplayName(cfg.Model.Chat)
	m.sess.AddLog("[SYNC]: Configuration matrix reloaded.")
	m.refresh()
	m.logger.Info("config applied")
	cmd := m.notify("Configuration reloaded", false)
	return m, cmd
}

// notify shows a transient status bar notice.
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.status.SetNotice(text, isError)
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Session returns the session manager.
func (m Model) Session() *session.Manager {
	return m.sess
}

// Field returns the neural field band.
func (m Model) Field() *Field {
	return m.field
}

// RequestID returns the ID of the newest directive.
func (m Model) RequestID() uint64 {
	return m.reqID
}

// Notice returns the status bar notice, if any.
func (m Model) Notice() string {
	return m.status.Notice
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInput replaces the text in the input line.
func (m *Model) SetInput(text string) {
	m.input.SetValue(text)
}

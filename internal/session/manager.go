// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/telemetry"
	"github.com/jeranaias/leoprime/internal/util"
)

var (
	// ErrEmptyInput is returned by Begin for blank directives.
	ErrEmptyInput = errors.New("empty directive")
	// ErrBusy is returned by Begin while a directive is in flight.
	ErrBusy = errors.New("directive already in flight")
)

// ReplyFallback replaces an empty model reply.
const ReplyFallback = "Interface relay interrupted."

// =============================================================================
// QUICK DIRECTIVES
// =============================================================================

// Directive is a canned prompt offered on the welcome screen.
type Directive struct {
	Label  string
	Prompt string
}

// QuickDirectives are the canned prompts in display order.
var QuickDirectives = []Directive{
	{Label: "Deep Code Scan", Prompt: "Execute a deep structural analysis of the Aria-Nexus architecture."},
	{Label: "Interface Sync", Prompt: "Simulate an interface evolution for an enterprise dashboard."},
}

// =============================================================================
// MANAGER
// =============================================================================

// Config holds configuration for the session manager.
type Config struct {
	Platform        model.Platform
	ChatModel       string
	LogSize         int
	IdleIntensity   float64
	ActiveIntensity float64
	Rand            *rand.Rand
	Logger          *zap.Logger
}

// DefaultConfig returns the stock session configuration.
func DefaultConfig() Config {
	return Config{
		Platform:        model.PlatformEnterprise,
		LogSize:         DefaultLogSize,
		IdleIntensity:   0.2,
		ActiveIntensity: 1.0,
	}
}

// Request is one directive ready to send.
type Request struct {
	// Input is the cleaned operator text.
	Input string
	// Prompt is Input prefixed with the device and status tags.
	Prompt string
	// History is the replayable conversation before this directive.
	History  []*model.Message
	Platform model.Platform
	Started  time.Time
}

// Manager tracks chat state. All methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	conv      *model.Conversation
	evolution model.EvolutionState
	log       *SystemLog
	monitor   *telemetry.Monitor
	rng       *rand.Rand
	logger    *zap.Logger

	idle, active float64

	loading   bool
	dashboard bool
	started   time.Time
}

// NewManager creates a manager in the boot state.
func NewManager(cfg Config) *Manager {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	evo := model.InitialEvolution()
	if cfg.Platform != "" {
		evo.Platform = cfg.Platform
	}

	return &Manager{
		conv:      model.NewConversationWithModel(cfg.ChatModel),
		evolution: evo,
		log:       NewSystemLog(cfg.LogSize, BootLog...),
		monitor:   telemetry.NewMonitor(rng),
		rng:       rng,
		logger:    logger.Named("session"),
		idle:      cfg.IdleIntensity,
		active:    cfg.ActiveIntensity,
	}
}

// DecoratePrompt tags a directive with the device it was issued from.
func DecoratePrompt(p model.Platform, input string) string {
	return fmt.Sprintf("[DEVICE: %s][STATUS: ARIA-FUSION-STABLE] %s", p.Label(), input)
}

// =============================================================================
// DIRECTIVE LIFECYCLE
// =============================================================================

// Begin accepts a directive: it records the user message, raises the
// loading flag and returns the request to send.
func (m *Manager) Begin(input string) (Request, error) {
	input = util.CleanInput(input)
	if input == "" {
		return Request{}, ErrEmptyInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return Request{}, ErrBusy
	}

	history := m.conv.History()
	m.conv.AddUserMessage(input)
	m.loading = true
	m.started = time.Now()
	platform := m.evolution.Platform
	m.log.Add(fmt.Sprintf("[EXE]: Processing directive via %s layer...", platform.Label()))

	m.logger.Info("directive accepted",
		zap.String("platform", platform.String()),
		zap.Int("history", len(history)),
		zap.Int("chars", len(input)))

	return Request{
		Input:    input,
		Prompt:   DecoratePrompt(platform, input),
		History:  history,
		Platform: platform,
		Started:  m.started,
	}, nil
}

// Token streams part of the reply into a pending model message.
func (m *Manager) Token(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loading {
		return
	}
	last := m.conv.GetLastMessage()
	if last == nil || !last.IsStreaming {
		last = m.conv.AddModelMessage()
	}
	last.AppendToken(token)
}

// Complete records the model's reply and advances the node metrics. An
// empty reply is replaced by ReplyFallback.
func (m *Manager) Complete(reply string) *model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(reply) == "" {
		reply = ReplyFallback
	}

	msg := m.conv.GetLastMessage()
	if msg == nil || !msg.IsStreaming {
		msg = m.conv.AddModelMessage()
	}
	msg.FinalizeStream()
	msg.Content = reply

	m.evolution = m.evolution.AfterReply(m.rng.Float64())
	m.monitor.Push(m.evolution.Efficiency, m.evolution.NetworkSaturation)

	m.logger.Info("directive answered",
		zap.Duration("elapsed", time.Since(m.started)),
		zap.Int("chars", len(reply)),
		zap.Float64("saturation", m.evolution.NetworkSaturation))
	return msg
}

// RecordAnalysis logs the assimilation summary.
func (m *Manager) RecordAnalysis(summary string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Add("[ANALYSIS]: " + strings.TrimSpace(summary))
}

// Fail logs a provider fault and discards any partial reply.
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropPartialLocked()
	m.log.Add("[FAULT]: Critical neural link error.")
	m.logger.Error("directive failed", zap.Error(err))
}

// Abort logs an operator cancellation and discards any partial reply.
func (m *Manager) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropPartialLocked()
	m.log.Add("[ABORT]: Directive withdrawn by operator.")
	m.logger.Info("directive aborted")
}

func (m *Manager) dropPartialLocked() {
	if last := m.conv.GetLastMessage(); last != nil && last.IsStreaming {
		m.conv.RemoveMessage(last.ID)
	}
}

// Finish lowers the loading flag. Call it once per Begin, whatever the outcome.
func (m *Manager) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}

// =============================================================================
// STATE
// =============================================================================

// Loading reports whether a directive is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Intensity is the particle field intensity for the current loading state.
func (m *Manager) Intensity() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return m.active
	}
	return m.idle
}

// SetIntensities replaces the idle and active field intensities.
func (m *Manager) SetIntensities(idle, active float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle, m.active = idle, active
}

// SetPlatform switches the emulated device.
func (m *Manager) SetPlatform(p model.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evolution.Platform = p
	m.log.Add(fmt.Sprintf("[PROTOCOL]: Interface migrating to %s emulation.", p.Label()))
	m.logger.Info("platform switched", zap.String("platform", p.String()))
}

// Platform returns the emulated device.
func (m *Manager) Platform() model.Platform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evolution.Platform
}

// ToggleDashboard flips the dashboard overlay and returns its new state.
func (m *Manager) ToggleDashboard() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboard = !m.dashboard
	return m.dashboard
}

// Dashboard reports whether the dashboard overlay is open.
func (m *Manager) Dashboard() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dashboard
}

// Evolution returns the node status.
func (m *Manager) Evolution() model.EvolutionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evolution
}

// Log returns the legacy log, newest first.
func (m *Manager) Log() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Entries()
}

// AddLog puts a free-form entry on the legacy log.
func (m *Manager) AddLog(entry string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Add(entry)
}

// Chart returns the assimilation map series.
func (m *Manager) Chart() []telemetry.ChartPoint {
	return m.monitor.Points()
}

// Efficiencies returns the efficiency column of the chart.
func (m *Manager) Efficiencies() []float64 {
	return m.monitor.Efficiencies()
}

// =============================================================================
// MESSAGES
// =============================================================================

// Messages returns the conversation's messages. The slice is a copy but
// the messages are shared; treat them as read-only.
func (m *Manager) Messages() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.conv.Messages...)
}

// LastReply returns the newest finished model text, or "".
func (m *Manager) LastReply() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg := m.conv.GetLastModelMessage(); msg != nil {
		return msg.Content
	}
	return ""
}

// AddVisual records a generated image.
func (m *Manager) AddVisual(caption, path, mime string) *model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Add("[VISUAL]: Holographic render committed.")
	return m.conv.AddImageMessage(caption, path, mime)
}

// AddNotice records a local system message. Notices are never sent.
func (m *Manager) AddNotice(text string) *model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.AddSystemMessage(text)
}

// Clear empties the conversation. Metrics and log are kept.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv.ClearHistory()
	m.log.Add("[PURGE]: Conversation buffer cleared.")
}

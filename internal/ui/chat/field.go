// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/canvas"
	"github.com/jeranaias/leoprime/internal/config"
)

// Raster backgrounds for dark and light terminals.
var (
	darkBackground  = colorful.Color{R: 0.02, G: 0.02, B: 0.03}
	lightBackground = colorful.Color{R: 0.98, G: 0.98, B: 0.97}
)

// =============================================================================
// NEURAL FIELD BAND
// =============================================================================

// Field owns the particle animator and the raster it draws on. It is only
// touched from the update goroutine.
type Field struct {
	raster *canvas.Raster
	sched  *canvas.QueueScheduler
	anim   *canvas.Animator
	logger *zap.Logger

	enabled   bool
	fps       int
	intensity float64
}

// NewField creates a stopped field sized 0x0.
func NewField(cfg config.CanvasConfig, dark bool, logger *zap.Logger) *Field {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Field{
		raster: canvas.NewRaster(0, 0),
		sched:  canvas.NewQueueScheduler(),
		logger: logger.Named("field"),
	}
	f.raster.Background = darkBackground
	if !dark {
		f.raster.Background = lightBackground
	}
	f.apply(cfg)
	f.intensity = cfg.IdleIntensity
	return f
}

func (f *Field) apply(cfg config.CanvasConfig) {
	f.enabled = cfg.Enabled
	f.fps = max(cfg.FPS, 1)
	f.raster.SetCellSize(cfg.CellWidth, cfg.CellHeight)
	if cfg.Gain > 0 {
		f.raster.Gain = cfg.Gain
	}
	if f.anim != nil {
		f.anim.Stop()
	}
	f.anim = canvas.NewAnimator(f.sched,
		canvas.WithParams(cfg.Params()),
		canvas.WithLogger(f.logger))
}

// Configure applies a reloaded canvas section and restarts the loop.
func (f *Field) Configure(cfg config.CanvasConfig) {
	f.apply(cfg)
	f.restart()
}

// SetSize resizes the band. A running loop regenerates its particles
// through the raster's resize notification; a stopped one is started.
func (f *Field) SetSize(cols, rows int) {
	f.raster.Resize(cols, rows)
	if !f.anim.Running() {
		f.restart()
	}
}

// SetIntensity restarts the loop when the intensity changes.
func (f *Field) SetIntensity(intensity float64) {
	if intensity == f.intensity && f.anim.Running() {
		return
	}
	f.intensity = intensity
	f.restart()
}

func (f *Field) restart() {
	if !f.enabled {
		f.anim.Stop()
		return
	}
	f.anim.Start(f.raster, f.intensity)
}

// Frame runs the due frame callbacks.
func (f *Field) Frame(now time.Time) int {
	return f.sched.Flush(now)
}

// Tick schedules the next FrameMsg.
func (f *Field) Tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(f.fps), func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// Stop ends the loop.
func (f *Field) Stop() {
	f.anim.Stop()
}

// Running reports whether the animator loop is active.
func (f *Field) Running() bool {
	return f.anim.Running()
}

// Enabled reports whether the field is drawn at all.
func (f *Field) Enabled() bool {
	return f.enabled
}

// Intensity returns the current intensity.
func (f *Field) Intensity() float64 {
	return f.intensity
}

// Rows returns the band height in cells.
func (f *Field) Rows() int {
	_, rows := f.raster.Cells()
	return rows
}

// View renders the band, or "" when it has no area.
func (f *Field) View() string {
	cols, rows := f.raster.Cells()
	if !f.enabled || cols == 0 || rows == 0 {
		return ""
	}
	return f.raster.Render()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// SURFACE
// =============================================================================

// Context is the set of drawing calls the animator issues.
type Context interface {
	Clear()
	SetFillStyle(c RGBA)
	SetStrokeStyle(c RGBA)
	FillCircle(x, y, radius float64)
	StrokeLine(x1, y1, x2, y2, width float64)
}

// Surface is a drawing target. Context returns nil while the surface cannot
// be drawn on (detached, zero-sized).
type Surface interface {
	Size() (width, height float64)
	Context() Context
}

// ResizeObservable is implemented by surfaces that announce their own size
// changes. The returned func stops the observation.
type ResizeObservable interface {
	ObserveResize(fn func()) (cancel func())
}

// =============================================================================
// ANIMATOR
// =============================================================================

// Animator drives one particle field on one surface. All methods are safe
// for concurrent use; frames and lifecycle calls are serialized.
type Animator struct {
	mu sync.Mutex

	sched  FrameScheduler
	params Params
	rng    *rand.Rand
	logger *zap.Logger

	surface   Surface
	intensity float64
	field     Field

	running   bool
	gen       uint64
	frame     FrameID
	scheduled bool
	unobserve func()

	frames uint64
}

// Option configures an Animator.
type Option func(*Animator)

// WithParams replaces the default field parameters.
func WithParams(p Params) Option {
	return func(a *Animator) { a.params = p }
}

// WithRand sets the random source used for seeding.
func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithLogger sets the animator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnimator creates a stopped animator that paces itself on sched.
func NewAnimator(sched FrameScheduler, opts ...Option) *Animator {
	a := &Animator{
		sched:  sched,
		params: DefaultParams(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins animating surface at the given intensity. Any previous loop
// is cancelled first. If the surface is nil or has no drawing context the
// call does nothing. The first frame is scheduled, not drawn.
func (a *Animator) Start(surface Surface, intensity float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	if surface == nil || surface.Context() == nil {
		a.logger.Debug("surface unavailable, animator idle")
		return
	}

	a.surface = surface
	a.intensity = intensity
	a.running = true
	a.gen++
	a.reseedLocked()

	if obs, ok := surface.(ResizeObservable); ok {
		a.unobserve = obs.ObserveResize(func() { a.Resize(surface) })
	}
	a.scheduleLocked()

	a.logger.Debug("animator started",
		zap.Float64("intensity", intensity),
		zap.Int("particles", len(a.field.Particles)),
		zap.Float64("width", a.field.Width),
		zap.Float64("height", a.field.Height))
}

// Resize regenerates the whole batch from the surface's current size.
// It is ignored while the animator is stopped.
func (a *Animator) Resize(surface Surface) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	if surface != nil {
		a.surface = surface
	}
	a.reseedLocked()
}

// Stop cancels the scheduled frame and the resize observation. No drawing
// happens after it returns. Safe to call more than once.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Animator) stopLocked() {
	if a.scheduled {
		a.sched.CancelFrame(a.frame)
		a.scheduled = false
	}
	if a.unobserve != nil {
		a.unobserve()
		a.unobserve = nil
	}
	if a.running {
		a.logger.Debug("animator stopped", zap.Uint64("frames", a.frames))
	}
	a.running = false
}

func (a *Animator) reseedLocked() {
	w, h := a.surface.Size()
	a.field = Seed(a.rng, w, h, a.params, a.intensity)
}

func (a *Animator) scheduleLocked() {
	gen := a.gen
	a.frame = a.sched.RequestFrame(func(time.Time) { a.runFrame(gen) })
	a.scheduled = true
}

func (a *Animator) runFrame(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// a callback from a cancelled loop can still be in a flush batch
	if !a.running || gen != a.gen {
		return
	}
	a.scheduled = false
	if ctx := a.surface.Context(); ctx != nil {
		a.drawLocked(ctx)
		a.frames++
	}
	a.scheduleLocked()
}

// drawLocked renders one frame: clear, move, bounce, fill, link.
func (a *Animator) drawLocked(ctx Context) {
	p := a.params
	ctx.Clear()
	ctx.SetFillStyle(p.Color.WithAlpha(p.FillAlpha(a.intensity)))
	ctx.SetStrokeStyle(p.Color.WithAlpha(p.StrokeAlpha(a.intensity)))

	ps := a.field.Particles
	w, h := a.field.Width, a.field.Height
	for i := range ps {
		pt := &ps[i]
		pt.Step(w, h)
		ctx.FillCircle(pt.X, pt.Y, pt.Radius)

		for j := i + 1; j < len(ps); j++ {
			other := &ps[j]
			d := math.Hypot(pt.X-other.X, pt.Y-other.Y)
			if d < p.LinkDistance {
				ctx.StrokeLine(pt.X, pt.Y, other.X, other.Y, p.LineWidth(d))
			}
		}
	}
}

// =============================================================================
// INSPECTION
// =============================================================================

// Running reports whether a loop is active.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Intensity returns the intensity of the current or last loop.
func (a *Animator) Intensity() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.intensity
}

// Frames returns the number of frames drawn since creation.
func (a *Animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

// Snapshot returns a copy of the current field.
func (a *Animator) Snapshot() Field {
	a.mu.Lock()
	defer a.mu.Unlock()
	f := a.field
	f.Particles = append([]Particle(nil), a.field.Particles...)
	return f
}

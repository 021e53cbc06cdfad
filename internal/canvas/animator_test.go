// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnimator(seed uint64) (*Animator, *QueueScheduler) {
	sched := NewQueueScheduler()
	return NewAnimator(sched, WithRand(seededRand(seed))), sched
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestAnimator_StartSchedulesWithoutDrawing(t *testing.T) {
	a, sched := newTestAnimator(1)
	s := newTestSurface(800, 600)

	a.Start(s, 0)

	assert.True(t, a.Running())
	assert.Equal(t, 1, sched.Pending())
	assert.Zero(t, s.rec.clears)
	assert.Len(t, a.Snapshot().Particles, 80)
}

func TestAnimator_StopBeforeFirstFrameDrawsNothing(t *testing.T) {
	a, sched := newTestAnimator(2)
	s := newTestSurface(800, 600)

	a.Start(s, 1)
	a.Stop()
	for i := 0; i < 5; i++ {
		sched.Flush(time.Now())
	}

	assert.Zero(t, s.rec.clears)
	assert.Zero(t, s.rec.draws)
	assert.Zero(t, sched.Pending())
	assert.False(t, a.Running())
}

func TestAnimator_StopIsIdempotent(t *testing.T) {
	a, sched := newTestAnimator(3)
	a.Stop()
	a.Start(newTestSurface(100, 100), 0.2)
	sched.Flush(time.Now())
	a.Stop()
	a.Stop()
	assert.Zero(t, sched.Pending())
	assert.Equal(t, uint64(1), a.Frames())
}

func TestAnimator_OneFramePerFlush(t *testing.T) {
	a, sched := newTestAnimator(4)
	s := newTestSurface(400, 300)
	a.Start(s, 0.2)

	for i := 1; i <= 10; i++ {
		ran := sched.Flush(time.Now())
		require.Equal(t, 1, ran)
		require.Equal(t, i, s.rec.clears)
	}
	assert.Equal(t, uint64(10), a.Frames())
}

func TestAnimator_UnavailableSurfaceIsNoop(t *testing.T) {
	a, sched := newTestAnimator(5)

	a.Start(nil, 1)
	a.Start(&testSurface{w: 800, h: 600}, 1)

	assert.False(t, a.Running())
	assert.Zero(t, sched.Pending())
	assert.Zero(t, sched.Flush(time.Now()))
}

func TestAnimator_RestartCancelsPreviousLoop(t *testing.T) {
	a, sched := newTestAnimator(6)
	first := newTestSurface(800, 600)
	second := newTestSurface(800, 600)

	a.Start(first, 0.2)
	sched.Flush(time.Now())
	a.Start(second, 1)
	for i := 0; i < 3; i++ {
		sched.Flush(time.Now())
	}

	assert.Equal(t, 1, first.rec.clears)
	assert.Equal(t, 3, second.rec.clears)
	assert.Equal(t, 1.0, a.Intensity())
	assert.Len(t, a.Snapshot().Particles, 200)
	assert.Equal(t, 1, sched.Pending())
}

// =============================================================================
// RESIZE TESTS
// =============================================================================

func TestAnimator_ResizeRegeneratesBatch(t *testing.T) {
	a, _ := newTestAnimator(7)
	s := newTestSurface(800, 600)

	a.Start(s, 0)
	before := a.Snapshot()
	a.Resize(s)
	after := a.Snapshot()

	require.Len(t, after.Particles, 80)
	assert.NotEmpty(t, cmp.Diff(before.Particles, after.Particles))
}

func TestAnimator_ResizeDiscardsOldPositions(t *testing.T) {
	a, sched := newTestAnimator(8)
	s := newTestSurface(800, 600)
	a.Start(s, 1)
	sched.Flush(time.Now())

	s.w = 400
	a.Resize(s)

	f := a.Snapshot()
	assert.Equal(t, 400.0, f.Width)
	for _, pt := range f.Particles {
		require.LessOrEqual(t, pt.X, 400.0)
	}
}

func TestAnimator_ResizeAfterStopIgnored(t *testing.T) {
	a, _ := newTestAnimator(9)
	s := newTestSurface(800, 600)
	a.Start(s, 0)
	a.Stop()
	before := a.Snapshot()

	s.w = 200
	a.Resize(s)

	assert.Empty(t, cmp.Diff(before, a.Snapshot()))
}

func TestAnimator_ObservesRasterResize(t *testing.T) {
	a, _ := newTestAnimator(10)
	r := NewRaster(50, 10)

	a.Start(r, 0)
	r.Resize(25, 10)

	f := a.Snapshot()
	w, _ := r.Size()
	assert.Equal(t, w, f.Width)
	for _, pt := range f.Particles {
		require.LessOrEqual(t, pt.X, w)
	}

	a.Stop()
	assert.Empty(t, r.observers)
	r.Resize(80, 10)
	assert.Equal(t, w, a.Snapshot().Width)
}

// =============================================================================
// FRAME TESTS
// =============================================================================

func TestAnimator_FrameStylesFollowIntensity(t *testing.T) {
	for _, intensity := range []float64{0, 0.2, 1} {
		a, sched := newTestAnimator(11)
		s := newTestSurface(300, 300)
		a.Start(s, intensity)
		sched.Flush(time.Now())

		assert.InDelta(t, 0.2+0.3*intensity, s.rec.fill.A, 1e-12)
		assert.InDelta(t, 0.05+0.15*intensity, s.rec.stroke.A, 1e-12)
		assert.Equal(t, uint8(234), s.rec.fill.R)
		assert.Equal(t, uint8(179), s.rec.stroke.G)
		assert.Equal(t, uint8(8), s.rec.fill.B)
	}
}

func TestAnimator_ParticlesInBoundsAtDraw(t *testing.T) {
	a, sched := newTestAnimator(12)
	s := newTestSurface(200, 150)
	a.Start(s, 2)

	for frame := 0; frame < 500; frame++ {
		sched.Flush(time.Now())
		require.Len(t, s.rec.circles, 320)
		for _, c := range s.rec.circles {
			require.GreaterOrEqual(t, c.X, 0.0)
			require.LessOrEqual(t, c.X, 200.0)
			require.GreaterOrEqual(t, c.Y, 0.0)
			require.LessOrEqual(t, c.Y, 150.0)
		}
	}
}

func TestAnimator_LinksOnlyBelowThreshold(t *testing.T) {
	a, sched := newTestAnimator(13)
	s := newTestSurface(1000, 700)
	a.Start(s, 0.5)

	for frame := 0; frame < 20; frame++ {
		sched.Flush(time.Now())
		for _, l := range s.rec.lines {
			d := math.Hypot(l.X1-l.X2, l.Y1-l.Y2)
			require.Less(t, d, 180.0)
			require.InDelta(t, (1-d/180)*0.5, l.W, 1e-9)
		}
	}
}

func TestAnimator_EachPairVisitedOnce(t *testing.T) {
	a, sched := newTestAnimator(14)
	// every pair is within range on a tiny surface
	s := newTestSurface(10, 10)
	a.Start(s, 0)
	sched.Flush(time.Now())

	n := 80
	assert.Len(t, s.rec.lines, n*(n-1)/2)
}

func TestAnimator_CoincidentParticlesDrawMaxWidth(t *testing.T) {
	p := DefaultParams()
	p.BaseCount = 2
	p.CountScale = 0
	p.BaseSpeed = 0
	a := NewAnimator(NewQueueScheduler(), WithParams(p), WithRand(seededRand(15)))
	s := newTestSurface(0, 0)

	a.Start(s, 0)
	a.runFrame(a.gen)

	require.Len(t, s.rec.lines, 1)
	assert.Equal(t, 0.5, s.rec.lines[0].W)
}

func TestAnimator_ZeroParticlesOnlyClears(t *testing.T) {
	p := DefaultParams()
	p.BaseCount = 0
	a := NewAnimator(NewQueueScheduler(), WithParams(p))
	s := newTestSurface(640, 480)

	a.Start(s, 0)
	for i := 0; i < 3; i++ {
		a.runFrame(a.gen)
	}

	assert.Equal(t, 3, s.rec.clears)
	assert.Zero(t, s.rec.draws)
}

func TestAnimator_SurfaceLostMidLoopSkipsDrawing(t *testing.T) {
	a, sched := newTestAnimator(16)
	s := newTestSurface(300, 300)
	a.Start(s, 0.2)
	sched.Flush(time.Now())

	rec := s.rec
	s.rec = nil
	sched.Flush(time.Now())

	assert.Equal(t, 1, rec.clears)
	assert.Equal(t, 1, sched.Pending())
	assert.True(t, a.Running())
}

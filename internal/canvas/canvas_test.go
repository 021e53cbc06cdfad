// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math/rand/v2"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type circle struct{ X, Y, R float64 }

type line struct{ X1, Y1, X2, Y2, W float64 }

// recorder is a Context that remembers every call of the last frame plus
// running totals.
type recorder struct {
	clears  int
	draws   int
	fill    RGBA
	stroke  RGBA
	circles []circle
	lines   []line
}

func (r *recorder) Clear() {
	r.clears++
	r.circles = r.circles[:0]
	r.lines = r.lines[:0]
}
func (r *recorder) SetFillStyle(c RGBA)   { r.fill = c }
func (r *recorder) SetStrokeStyle(c RGBA) { r.stroke = c }
func (r *recorder) FillCircle(x, y, radius float64) {
	r.draws++
	r.circles = append(r.circles, circle{x, y, radius})
}
func (r *recorder) StrokeLine(x1, y1, x2, y2, w float64) {
	r.draws++
	r.lines = append(r.lines, line{x1, y1, x2, y2, w})
}

// testSurface is a fixed-size surface backed by a recorder. A nil rec makes
// the surface unavailable.
type testSurface struct {
	w, h float64
	rec  *recorder
}

func newTestSurface(w, h float64) *testSurface {
	return &testSurface{w: w, h: h, rec: &recorder{}}
}

func (s *testSurface) Size() (float64, float64) { return s.w, s.h }

func (s *testSurface) Context() Context {
	if s.rec == nil {
		return nil
	}
	return s.rec
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"math/rand/v2"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// RGBA is a drawing color. A is the alpha in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// WithAlpha returns the color with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Amber is the fixed hue of the field.
var Amber = RGBA{R: 234, G: 179, B: 8, A: 1}

// Params controls the size, motion and look of a particle field.
type Params struct {
	BaseCount  int     // particles at intensity 0
	CountScale float64 // extra particles per unit of intensity

	BaseSpeed  float64 // velocity range at intensity 0
	SpeedScale float64 // extra velocity range per unit of intensity

	MinRadius   float64
	RadiusRange float64

	LinkDistance float64 // pairs closer than this are joined
	MaxLineWidth float64 // line width at distance 0

	FillAlphaBase    float64
	FillAlphaScale   float64
	StrokeAlphaBase  float64
	StrokeAlphaScale float64

	Color RGBA
}

// DefaultParams returns the stock neural-mesh look.
func DefaultParams() Params {
	return Params{
		BaseCount:        80,
		CountScale:       120,
		BaseSpeed:        0.3,
		SpeedScale:       1.5,
		MinRadius:        0.5,
		RadiusRange:      1.5,
		LinkDistance:     180,
		MaxLineWidth:     0.5,
		FillAlphaBase:    0.2,
		FillAlphaScale:   0.3,
		StrokeAlphaBase:  0.05,
		StrokeAlphaScale: 0.15,
		Color:            Amber,
	}
}

// Count returns the batch size for an intensity. Negative results mean an
// empty field.
func (p Params) Count(intensity float64) int {
	return p.BaseCount + int(math.Floor(intensity*p.CountScale))
}

// Speed returns the width of the per-axis velocity range for an intensity.
func (p Params) Speed(intensity float64) float64 {
	return p.BaseSpeed + intensity*p.SpeedScale
}

// FillAlpha returns the particle fill alpha for an intensity.
func (p Params) FillAlpha(intensity float64) float64 {
	return p.FillAlphaBase + p.FillAlphaScale*intensity
}

// StrokeAlpha returns the link stroke alpha for an intensity.
func (p Params) StrokeAlpha(intensity float64) float64 {
	return p.StrokeAlphaBase + p.StrokeAlphaScale*intensity
}

// LineWidth returns the stroke width of a link between two particles d
// units apart, or 0 when they are too far apart to be linked.
func (p Params) LineWidth(d float64) float64 {
	if d >= p.LinkDistance {
		return 0
	}
	return (1 - d/p.LinkDistance) * p.MaxLineWidth
}

// =============================================================================
// PARTICLE
// =============================================================================

// Particle is one point of the field.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// NewParticle places a particle uniformly over a width x height surface with
// a velocity drawn from (rand-0.5)*speed on each axis.
func NewParticle(rng *rand.Rand, width, height float64, p Params, intensity float64) Particle {
	speed := p.Speed(intensity)
	return Particle{
		X:      rng.Float64() * width,
		Y:      rng.Float64() * height,
		VX:     (rng.Float64() - 0.5) * speed,
		VY:     (rng.Float64() - 0.5) * speed,
		Radius: rng.Float64()*p.RadiusRange + p.MinRadius,
	}
}

// Step advances the particle by one frame and bounces it off the edges of a
// width x height surface. A particle that would cross an edge is mirrored
// back inside and its velocity on that axis is negated. Unlike a bare
// velocity flip, this never leaves a particle outside the surface for a frame.
func (pt *Particle) Step(width, height float64) {
	pt.X += pt.VX
	pt.Y += pt.VY
	pt.X, pt.VX = bounce(pt.X, pt.VX, width)
	pt.Y, pt.VY = bounce(pt.Y, pt.VY, height)
}

func bounce(pos, vel, limit float64) (float64, float64) {
	switch {
	case pos < 0:
		pos, vel = -pos, -vel
	case pos > limit:
		pos, vel = 2*limit-pos, -vel
	default:
		return pos, vel
	}
	// a step longer than the surface can still mirror past the far edge
	return math.Min(math.Max(pos, 0), limit), vel
}

// =============================================================================
// FIELD
// =============================================================================

// Field is the ordered particle batch and the surface size it lives on.
type Field struct {
	Particles     []Particle
	Width, Height float64
}

// Seed generates a fresh batch for a width x height surface.
func Seed(rng *rand.Rand, width, height float64, p Params, intensity float64) Field {
	n := p.Count(intensity)
	if n < 0 {
		n = 0
	}
	f := Field{
		Particles: make([]Particle, n),
		Width:     width,
		Height:    height,
	}
	for i := range f.Particles {
		f.Particles[i] = NewParticle(rng, width, height, p, intensity)
	}
	return f
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

// SeriesLength is the number of samples kept in the chart.
const SeriesLength = 24

// ChartPoint is one sample of the assimilation map.
type ChartPoint struct {
	Time       string  `json:"time"`
	Efficiency float64 `json:"efficiency"`
	Saturation float64 `json:"saturation"`
}

// =============================================================================
// MONITOR
// =============================================================================

// Monitor holds the rolling chart series.
type Monitor struct {
	mu     sync.RWMutex
	points []ChartPoint
	tick   int
}

// NewMonitor seeds a full series: efficiency 98 + rand*2, saturation 5 + i*3,
// labelled "0" through "23".
func NewMonitor(rng *rand.Rand) *Monitor {
	m := &Monitor{points: make([]ChartPoint, SeriesLength)}
	for i := range m.points {
		m.points[i] = ChartPoint{
			Time:       hourLabel(i),
			Efficiency: 98 + rng.Float64()*2,
			Saturation: 5 + float64(i)*3,
		}
	}
	m.tick = SeriesLength
	return m
}

func hourLabel(i int) string {
	return strconv.Itoa(i % 24)
}

// Push appends a sample and drops the oldest.
func (m *Monitor) Push(efficiency, saturation float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, ChartPoint{
		Time:       hourLabel(m.tick),
		Efficiency: efficiency,
		Saturation: saturation,
	})
	m.tick++
	if len(m.points) > SeriesLength {
		m.points = m.points[len(m.points)-SeriesLength:]
	}
}

// Points returns a copy of the series, oldest first.
func (m *Monitor) Points() []ChartPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ChartPoint(nil), m.points...)
}

// Latest returns the newest sample.
func (m *Monitor) Latest() ChartPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.points) == 0 {
		return ChartPoint{}
	}
	return m.points[len(m.points)-1]
}

// Efficiencies returns the efficiency column.
func (m *Monitor) Efficiencies() []float64 {
	return m.column(func(p ChartPoint) float64 { return p.Efficiency })
}

// Saturations returns the saturation column.
func (m *Monitor) Saturations() []float64 {
	return m.column(func(p ChartPoint) float64 { return p.Saturation })
}

func (m *Monitor) column(get func(ChartPoint) float64) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(m.points))
	for i, p := range m.points {
		out[i] = get(p)
	}
	return out
}

// =============================================================================
// SPARKLINE
// =============================================================================

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the last width values as block characters scaled between
// their own min and max. A flat series draws at mid height.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var sb strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := top / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}

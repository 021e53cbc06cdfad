// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestNewMonitor_SeedsSeries(t *testing.T) {
	m := NewMonitor(newRand())
	points := m.Points()
	require.Len(t, points, SeriesLength)

	for i, p := range points {
		assert.GreaterOrEqual(t, p.Efficiency, 98.0)
		assert.Less(t, p.Efficiency, 100.0)
		assert.Equal(t, 5+float64(i)*3, p.Saturation)
	}
	assert.Equal(t, "0", points[0].Time)
	assert.Equal(t, "23", points[23].Time)
}

func TestMonitor_PushRolls(t *testing.T) {
	m := NewMonitor(newRand())
	m.Push(99.5, 7)

	points := m.Points()
	require.Len(t, points, SeriesLength)
	assert.Equal(t, "1", points[0].Time)
	assert.Equal(t, ChartPoint{Time: "0", Efficiency: 99.5, Saturation: 7}, m.Latest())
	assert.Equal(t, 7.0, m.Saturations()[SeriesLength-1])
	assert.Equal(t, 99.5, m.Efficiencies()[SeriesLength-1])
}

func TestMonitor_ConcurrentAccess(t *testing.T) {
	m := NewMonitor(newRand())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Push(99, float64(i))
		}(i)
		go func() {
			defer wg.Done()
			_ = Sparkline(m.Efficiencies(), 10)
		}()
	}
	wg.Wait()
	assert.Len(t, m.Points(), SeriesLength)
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"ramp", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 8, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{5, 5, 5}, 3, "▄▄▄"},
		{"keeps tail", []float64{100, 0, 7}, 2, "▁█"},
		{"empty", nil, 4, ""},
		{"zero width", []float64{1}, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sparkline(tc.values, tc.width))
		})
	}
}

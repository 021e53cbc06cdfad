// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/leoprime/internal/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewPCG(7, 11))
	return NewManager(cfg)
}

// =============================================================================
// SYSTEM LOG TESTS
// =============================================================================

func TestSystemLog_NewestFirstAndCapped(t *testing.T) {
	l := NewSystemLog(3, "b", "a")
	l.Add("c")
	l.Add("d")
	assert.Equal(t, []string{"d", "c", "b"}, l.Entries())

	l.Add("e")
	assert.Equal(t, []string{"e", "d", "c"}, l.Entries())
	assert.Equal(t, 3, l.Len())
}

func TestSystemLog_EntriesIsCopy(t *testing.T) {
	l := NewSystemLog(2, "a")
	got := l.Entries()
	got[0] = "mutated"
	assert.Equal(t, "a", l.Entries()[0])
}

func TestSystemLog_InvalidCapacity(t *testing.T) {
	l := NewSystemLog(0)
	for i := 0; i < 10; i++ {
		l.Add("x")
	}
	assert.Equal(t, DefaultLogSize, l.Len())
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestManager_BootState(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, BootLog, m.Log())
	assert.False(t, m.Loading())
	assert.Equal(t, model.PlatformEnterprise, m.Platform())
	assert.Len(t, m.Chart(), 24)
	assert.Empty(t, m.Messages())
}

func TestManager_BeginRejectsBlank(t *testing.T) {
	m := newTestManager(t)
	for _, in := range []string{"", "   ", "\n\t", "\x00\x07"} {
		_, err := m.Begin(in)
		assert.ErrorIs(t, err, ErrEmptyInput, "input %q", in)
	}
	assert.False(t, m.Loading())
	assert.Equal(t, BootLog, m.Log())
	assert.Empty(t, m.Messages())
}

func TestManager_BeginWhileLoading(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("first")
	require.NoError(t, err)

	_, err = m.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, m.Messages(), 1)
}

func TestManager_BeginBuildsRequest(t *testing.T) {
	m := newTestManager(t)
	m.SetPlatform(model.PlatformAndroid)

	req, err := m.Begin("  scan the core  ")
	require.NoError(t, err)

	assert.Equal(t, "scan the core", req.Input)
	assert.Equal(t, "[DEVICE: ANDROID][STATUS: ARIA-FUSION-STABLE] scan the core", req.Prompt)
	assert.Empty(t, req.History)
	assert.Equal(t, model.PlatformAndroid, req.Platform)
	assert.True(t, m.Loading())
	assert.Equal(t, "[EXE]: Processing directive via ANDROID layer...", m.Log()[0])

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "scan the core", msgs[0].Content)
}

func TestManager_HistoryExcludesCurrentAndVisuals(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Begin("one")
	require.NoError(t, err)
	m.Complete("reply one")
	m.Finish()

	m.AddVisual("render", "/tmp/a.png", "image/png")
	m.AddNotice("local only")

	req, err := m.Begin("two")
	require.NoError(t, err)

	require.Len(t, req.History, 2)
	assert.Equal(t, model.RoleUser, req.History[0].Role)
	assert.Equal(t, "one", req.History[0].Content)
	assert.Equal(t, model.RoleModel, req.History[1].Role)
	assert.Equal(t, "reply one", req.History[1].Content)
}

func TestManager_CompleteAdvancesMetrics(t *testing.T) {
	m := newTestManager(t)
	before := m.Evolution()

	_, err := m.Begin("status")
	require.NoError(t, err)
	msg := m.Complete("nominal")

	after := m.Evolution()
	assert.Equal(t, before.NetworkSaturation+model.SaturationStep, after.NetworkSaturation)
	assert.GreaterOrEqual(t, after.Efficiency, 99.0)
	assert.LessOrEqual(t, after.Efficiency, 100.0)
	assert.Equal(t, "nominal", msg.Content)
	assert.False(t, msg.IsStreaming)

	latest := m.Chart()[len(m.Chart())-1]
	assert.Equal(t, after.NetworkSaturation, latest.Saturation)
	assert.Equal(t, after.Efficiency, latest.Efficiency)

	// Loading stays up until Finish so analysis can run.
	assert.True(t, m.Loading())
	m.Finish()
	assert.False(t, m.Loading())
}

func TestManager_CompleteEmptyUsesFallback(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("status")
	require.NoError(t, err)

	msg := m.Complete("  ")
	assert.Equal(t, ReplyFallback, msg.Content)
}

func TestManager_SaturationCapsAt100(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 60; i++ {
		_, err := m.Begin("again")
		require.NoError(t, err)
		m.Complete("ok")
		m.Finish()
	}
	assert.Equal(t, 100.0, m.Evolution().NetworkSaturation)
}

func TestManager_StreamingTokens(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("stream")
	require.NoError(t, err)

	m.Token("All ")
	m.Token("layers")
	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsStreaming)
	assert.Equal(t, "All layers", msgs[1].GetDisplayContent())

	msg := m.Complete("All layers nominal.")
	assert.Same(t, msgs[1], msg)
	assert.Equal(t, "All layers nominal.", msg.Content)
	assert.Len(t, m.Messages(), 2)
}

func TestManager_TokenIgnoredWhenIdle(t *testing.T) {
	m := newTestManager(t)
	m.Token("stray")
	assert.Empty(t, m.Messages())
}

func TestManager_FailDropsPartialReply(t *testing.T) {
	m := newTestManager(t)
	before := m.Evolution()

	_, err := m.Begin("doomed")
	require.NoError(t, err)
	m.Token("half")
	m.Fail(errors.New("boom"))
	m.Finish()

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "[FAULT]: Critical neural link error.", m.Log()[0])
	assert.Equal(t, before, m.Evolution())
	assert.False(t, m.Loading())
}

func TestManager_Abort(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("never mind")
	require.NoError(t, err)
	m.Token("par")
	m.Abort()
	m.Finish()

	assert.Len(t, m.Messages(), 1)
	assert.Contains(t, m.Log()[0], "[ABORT]")
}

func TestManager_FullExchangeLog(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("status")
	require.NoError(t, err)
	m.Complete("fine")
	m.RecordAnalysis("Vector stable.")
	m.Finish()

	assert.Equal(t, []string{
		"[ANALYSIS]: Vector stable.",
		"[EXE]: Processing directive via ENTERPRISE layer...",
		"[BOOT]: Aria-Nexus v.Final Fusion... OK",
		"[LINK]: Prime protocols online.",
	}, m.Log())
}

func TestManager_LogKeepsSix(t *testing.T) {
	m := newTestManager(t)
	for _, p := range []model.Platform{
		model.PlatformAndroid, model.PlatformIOS, model.PlatformPC,
		model.PlatformEnterprise, model.PlatformAndroid,
	} {
		m.SetPlatform(p)
	}
	log := m.Log()
	require.Len(t, log, DefaultLogSize)
	assert.Equal(t, "[PROTOCOL]: Interface migrating to ANDROID emulation.", log[0])
	assert.Equal(t, "[BOOT]: Aria-Nexus v.Final Fusion... OK", log[5])
}

// =============================================================================
// STATE TESTS
// =============================================================================

func TestManager_Intensity(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, 0.2, m.Intensity())

	_, err := m.Begin("go")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Intensity())

	m.Finish()
	m.SetIntensities(0.1, 0.9)
	assert.Equal(t, 0.1, m.Intensity())
}

func TestManager_Dashboard(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.Dashboard())
	assert.True(t, m.ToggleDashboard())
	assert.True(t, m.Dashboard())
	assert.False(t, m.ToggleDashboard())
}

func TestManager_ClearKeepsMetrics(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Begin("one")
	require.NoError(t, err)
	m.Complete("reply")
	m.Finish()
	evo := m.Evolution()

	m.Clear()
	assert.Empty(t, m.Messages())
	assert.Equal(t, evo, m.Evolution())
	assert.Equal(t, "[PURGE]: Conversation buffer cleared.", m.Log()[0])
}

func TestManager_LastReply(t *testing.T) {
	m := newTestManager(t)
	assert.Empty(t, m.LastReply())

	_, err := m.Begin("one")
	require.NoError(t, err)
	m.Token("partial")
	assert.Empty(t, m.LastReply())
	m.Complete("done")
	assert.Equal(t, "done", m.LastReply())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := m.Begin("ping"); err == nil {
				m.Complete("pong")
				m.Finish()
			}
		}()
		go func() {
			defer wg.Done()
			_ = m.Log()
			_ = m.Evolution()
			_ = m.Intensity()
			_ = m.Chart()
		}()
	}
	wg.Wait()

	assert.False(t, m.Loading())
	assert.LessOrEqual(t, len(m.Log()), DefaultLogSize)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/model"
)

// =============================================================================
// FAKE API
// =============================================================================

// fakeAPI records requests and answers like the Gemini REST endpoint.
type fakeAPI struct {
	mu     sync.Mutex
	paths  []string
	bodies []map[string]any
	chunks []string
	text   string
	image  []byte
	status int
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			},
		}},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)

	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, decoded)
	f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprint(w, `{"error":{"code":500,"message":"core meltdown","status":"INTERNAL"}}`)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, ":streamGenerateContent"):
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range f.chunks {
			data, _ := json.Marshal(textResponse(chunk))
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
	case f.image != nil:
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{
						map[string]any{"text": "rendered"},
						map[string]any{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(f.image),
						}},
					},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		_ = json.NewEncoder(w).Encode(textResponse(f.text))
	}
}

func (f *fakeAPI) lastBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return nil
	}
	return f.bodies[len(f.bodies)-1]
}

func (f *fakeAPI) lastURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.paths) == 0 {
		return ""
	}
	return f.paths[len(f.paths)-1]
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.RequestsPerMinute = 0
	cfg.Timeout = 5 * time.Second

	c, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

// =============================================================================
// CONSTRUCTION TESTS
// =============================================================================

func TestNewClient_NotConfigured(t *testing.T) {
	for _, key := range []string{"", "   "} {
		cfg := DefaultConfig()
		cfg.APIKey = key
		_, err := NewClient(context.Background(), cfg)
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestFromConfig(t *testing.T) {
	mc := config.Default().Model
	mc.APIKey = "k"
	mc.Chat = "flash"
	mc.Image = "custom-image-model"
	mc.TimeoutSecs = 9
	mc.ThinkingBudget = 0

	got := FromConfig(mc)
	assert.Equal(t, "gemini-3-flash-preview", got.ChatModel)
	assert.Equal(t, "custom-image-model", got.ImageModel)
	assert.Equal(t, 9*time.Second, got.Timeout)
	assert.Equal(t, 0, got.ThinkingBudget)
	assert.Equal(t, "k", got.APIKey)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********wxyz", MaskKey("abcdefwxyz"))
	assert.Equal(t, "***", MaskKey("abc"))
	assert.Equal(t, "", MaskKey(""))
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, 4, newLimiter(30).Burst())
	assert.Equal(t, 2, newLimiter(2).Burst())
	assert.True(t, newLimiter(0).Allow())
}

// =============================================================================
// REQUEST BUILDING TESTS
// =============================================================================

func TestContents(t *testing.T) {
	streaming := model.NewModelMessage()
	streaming.AppendToken("partial")

	history := []*model.Message{
		model.NewUserMessage("one"),
		model.NewMessage(model.RoleModel, "reply one"),
		model.NewImageMessage("render", "/tmp/x.png", "image/png"),
		model.NewSystemMessage("notice"),
		streaming,
	}

	got := Contents(history, "[DEVICE: PC][STATUS: ARIA-FUSION-STABLE] two")

	type turn struct{ Role, Text string }
	var turns []turn
	for _, c := range got {
		require.Len(t, c.Parts, 1)
		turns = append(turns, turn{c.Role, c.Parts[0].Text})
	}
	want := []turn{
		{"user", "one"},
		{"model", "reply one"},
		{"user", "[DEVICE: PC][STATUS: ARIA-FUSION-STABLE] two"},
	}
	if diff := cmp.Diff(want, turns); diff != "" {
		t.Errorf("Contents mismatch (-want +got):\n%s", diff)
	}
}

func TestChatConfig(t *testing.T) {
	c := &Client{cfg: DefaultConfig()}
	gc := c.chatConfig()
	require.NotNil(t, gc.SystemInstruction)
	assert.Equal(t, SystemInstruction, gc.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.8, *gc.Temperature, 1e-6)
	assert.InDelta(t, 0.95, *gc.TopP, 1e-6)
	require.NotNil(t, gc.ThinkingConfig)
	assert.Equal(t, int32(32768), *gc.ThinkingConfig.ThinkingBudget)

	c.cfg.ThinkingBudget = 0
	assert.Nil(t, c.chatConfig().ThinkingConfig)
}

func TestReplyText_SkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "pondering", Thought: true},
				{Text: "Core "},
				{Text: "stable."},
			}},
		}},
	}
	assert.Equal(t, "Core stable.", replyText(resp))
	assert.Empty(t, replyText(nil))
	assert.Empty(t, replyText(&genai.GenerateContentResponse{}))
}

func TestPrompts(t *testing.T) {
	assert.True(t, strings.HasSuffix(AnalysisPrompt("x"), "'Assimilation Status': x"))
	assert.True(t, strings.HasPrefix(VisualPrompt("a tower"),
		"A futuristic, high-tech holographic representation of: a tower."))
	assert.True(t, strings.HasPrefix(SystemInstruction, "You are LEO (Logarithmic Enterprise Orchestrator)"))
}

// =============================================================================
// CALL TESTS
// =============================================================================

func TestChatStream(t *testing.T) {
	api := &fakeAPI{chunks: []string{"All ", "layers ", "nominal."}}
	c := newTestClient(t, api)

	var tokens []string
	history := []*model.Message{model.NewUserMessage("hi"), model.NewMessage(model.RoleModel, "hello")}
	reply, err := c.ChatStream(context.Background(), history, "status", func(tok string) {
		tokens = append(tokens, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, "All layers nominal.", reply)
	assert.Equal(t, []string{"All ", "layers ", "nominal."}, tokens)
	assert.Contains(t, api.lastURL(), "gemini-3-pro-preview:streamGenerateContent")

	body := api.lastBody()
	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 3)
	assert.Contains(t, body, "systemInstruction")
}

func TestChat(t *testing.T) {
	api := &fakeAPI{text: "Directive acknowledged."}
	c := newTestClient(t, api)

	reply, err := c.Chat(context.Background(), nil, "status")
	require.NoError(t, err)
	assert.Equal(t, "Directive acknowledged.", reply)
	assert.Contains(t, api.lastURL(), "gemini-3-pro-preview:generateContent")
}

func TestAnalyze(t *testing.T) {
	api := &fakeAPI{text: "  Vector ascending.  "}
	c := newTestClient(t, api)

	got, err := c.Analyze(context.Background(), "scan the core")
	require.NoError(t, err)
	assert.Equal(t, "Vector ascending.", got)
	assert.Contains(t, api.lastURL(), "gemini-3-flash-preview:generateContent")
}

func TestAnalyze_EmptyUsesFallback(t *testing.T) {
	c := newTestClient(t, &fakeAPI{text: ""})

	got, err := c.Analyze(context.Background(), "scan")
	require.NoError(t, err)
	assert.Equal(t, AnalysisFallback, got)
}

func TestVisual(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	api := &fakeAPI{image: png}
	c := newTestClient(t, api)

	img, err := c.Visual(context.Background(), "a data spire")
	require.NoError(t, err)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Contains(t, api.lastURL(), "gemini-2.5-flash-image:generateContent")

	gen, ok := api.lastBody()["generationConfig"].(map[string]any)
	require.True(t, ok)
	imgCfg, ok := gen["imageConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "16:9", imgCfg["aspectRatio"])
}

func TestVisual_NoImage(t *testing.T) {
	c := newTestClient(t, &fakeAPI{text: "I cannot draw."})

	_, err := c.Visual(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestServerErrorIsReturnedOnce(t *testing.T) {
	api := &fakeAPI{status: http.StatusInternalServerError}
	c := newTestClient(t, api)

	_, err := c.Chat(context.Background(), nil, "status")
	require.Error(t, err)

	var apiErr genai.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Len(t, api.paths, 1, "calls must not be retried")
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, &fakeAPI{text: "late"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Chat(ctx, nil, "status")
	assert.Error(t, err)
}

// =============================================================================
// IMAGE TESTS
// =============================================================================

func TestImageExt(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/webp", ".webp"},
		{"application/x-unknown-thing", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Image{MIMEType: tt.mime}).Ext())
		})
	}
}

func TestImageSave(t *testing.T) {
	dir := t.TempDir()
	img := &Image{Data: []byte("pixels"), MIMEType: "image/jpeg"}

	path, err := img.Save(filepath.Join(dir, "visuals", "render"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "visuals", "render.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

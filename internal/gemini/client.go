// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/jeranaias/leoprime/internal/config"
	"github.com/jeranaias/leoprime/internal/model"
)

// Default models and generation parameters.
const (
	DefaultChatModel      = "gemini-3-pro-preview"
	DefaultAnalysisModel  = "gemini-3-flash-preview"
	DefaultImageModel     = "gemini-2.5-flash-image"
	DefaultTemperature    = 0.8
	DefaultTopP           = 0.95
	DefaultThinkingBudget = 32768
	DefaultAspectRatio    = "16:9"

	// DefaultTimeout bounds a single call, streaming included.
	DefaultTimeout = 120 * time.Second

	// limiterBurst lets a reply and its analysis go out back to back.
	limiterBurst = 4
)

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrNoImage indicates the image model answered without an inline image.
	ErrNoImage = errors.New("no image in response")
)

// =============================================================================
// PROVIDER
// =============================================================================

// Provider is what the UI and CLI need from a model backend.
type Provider interface {
	// ChatStream sends prompt after history and reports each text chunk to
	// onToken. It returns the full reply.
	ChatStream(ctx context.Context, history []*model.Message, prompt string, onToken func(string)) (string, error)
	// Analyze summarizes one interaction. Empty answers become AnalysisFallback.
	Analyze(ctx context.Context, interaction string) (string, error)
	// Visual renders subject as an image.
	Visual(ctx context.Context, subject string) (*Image, error)
}

// =============================================================================
// CLIENT
// =============================================================================

// Config holds the call parameters.
type Config struct {
	APIKey         string
	ChatModel      string
	AnalysisModel  string
	ImageModel     string
	Temperature    float64
	TopP           float64
	ThinkingBudget int
	AspectRatio    string
	// RequestsPerMinute of 0 disables throttling.
	RequestsPerMinute int
	Timeout           time.Duration
	// BaseURL overrides the API endpoint. Tests point it at httptest.
	BaseURL string
}

// DefaultConfig returns the stock call parameters without an API key.
func DefaultConfig() Config {
	return Config{
		ChatModel:         DefaultChatModel,
		AnalysisModel:     DefaultAnalysisModel,
		ImageModel:        DefaultImageModel,
		Temperature:       DefaultTemperature,
		TopP:              DefaultTopP,
		ThinkingBudget:    DefaultThinkingBudget,
		AspectRatio:       DefaultAspectRatio,
		RequestsPerMinute: 30,
		Timeout:           DefaultTimeout,
	}
}

// FromConfig maps the [model] config section onto a client Config.
func FromConfig(mc config.ModelConfig) Config {
	cfg := DefaultConfig()
	cfg.APIKey = mc.APIKey
	if mc.Chat != "" {
		cfg.ChatModel = resolveModel(mc.Chat)
	}
	if mc.Analysis != "" {
		cfg.AnalysisModel = resolveModel(mc.Analysis)
	}
	if mc.Image != "" {
		cfg.ImageModel = resolveModel(mc.Image)
	}
	cfg.Temperature = mc.Temperature
	cfg.TopP = mc.TopP
	cfg.ThinkingBudget = mc.ThinkingBudget
	if mc.AspectRatio != "" {
		cfg.AspectRatio = mc.AspectRatio
	}
	cfg.RequestsPerMinute = mc.RequestsPerMinute
	if mc.TimeoutSecs > 0 {
		cfg.Timeout = time.Duration(mc.TimeoutSecs) * time.Second
	}
	return cfg
}

// resolveModel accepts a registry short name ("pro") or a full model ID.
func resolveModel(name string) string {
	if info, ok := model.GetModelInfo(name); ok {
		return info.ID
	}
	return name
}

// Client is a Gemini client. It is safe for concurrent use.
type Client struct {
	genai   *genai.Client
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client. It returns ErrNotConfigured when cfg has no
// API key.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c := &Client{
		genai:   gc,
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("gemini")
	return c, nil
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := min(limiterBurst, perMinute)
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// Config returns the client's call parameters with the key masked.
func (c *Client) Config() Config {
	cfg := c.cfg
	cfg.APIKey = MaskKey(cfg.APIKey)
	return cfg
}

// MaskKey keeps the last four characters of an API key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

// begin waits for the limiter and applies the per-call timeout.
func (c *Client) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	return ctx, cancel, nil
}

// =============================================================================
// REQUEST BUILDING
// =============================================================================

// Contents converts history plus the new prompt into genai contents.
// Messages that do not belong in provider history are skipped.
func Contents(history []*model.Message, prompt string) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		if !msg.InHistory() {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(msg.Content, role))
	}
	return append(out, genai.NewContentFromText(prompt, genai.RoleUser))
}

func (c *Client) chatConfig() *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.cfg.Temperature)),
		TopP:              genai.Ptr(float32(c.cfg.TopP)),
	}
	if c.cfg.ThinkingBudget > 0 {
		gc.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(c.cfg.ThinkingBudget)),
		}
	}
	return gc
}

// replyText joins the first candidate's text parts, skipping thoughts.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

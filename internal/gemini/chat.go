// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jeranaias/leoprime/internal/model"
)

// ChatStream sends a directive and streams the reply. When the stream
// fails midway the text received so far is returned with the error.
func (c *Client) ChatStream(ctx context.Context, history []*model.Message, prompt string, onToken func(string)) (string, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	contents := Contents(history, prompt)
	c.logger.Debug("chat stream",
		zap.String("model", c.cfg.ChatModel),
		zap.Int("contents", len(contents)))

	var sb strings.Builder
	for resp, err := range c.genai.Models.GenerateContentStream(ctx, c.cfg.ChatModel, contents, c.chatConfig()) {
		if err != nil {
			c.logger.Error("chat stream failed",
				zap.String("model", c.cfg.ChatModel),
				zap.Int("received", sb.Len()),
				zap.Error(err))
			return sb.String(), fmt.Errorf("chat stream: %w", err)
		}
		chunk := replyText(resp)
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if onToken != nil {
			onToken(chunk)
		}
	}

	c.logger.Info("chat reply",
		zap.String("model", c.cfg.ChatModel),
		zap.Int("chars", sb.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return sb.String(), nil
}

// Chat sends a directive and waits for the whole reply.
func (c *Client) Chat(ctx context.Context, history []*model.Message, prompt string) (string, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.ChatModel, Contents(history, prompt), c.chatConfig())
	if err != nil {
		c.logger.Error("chat failed", zap.String("model", c.cfg.ChatModel), zap.Error(err))
		return "", fmt.Errorf("chat: %w", err)
	}
	text := replyText(resp)
	c.logger.Info("chat reply",
		zap.String("model", c.cfg.ChatModel),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

// Analyze asks the analysis model for an assimilation status line.
func (c *Client) Analyze(ctx context.Context, interaction string) (string, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(AnalysisPrompt(interaction), genai.RoleUser)}
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.AnalysisModel, contents, nil)
	if err != nil {
		c.logger.Error("analysis failed", zap.String("model", c.cfg.AnalysisModel), zap.Error(err))
		return "", fmt.Errorf("analyze: %w", err)
	}
	text := strings.TrimSpace(replyText(resp))
	if text == "" {
		return AnalysisFallback, nil
	}
	return text, nil
}

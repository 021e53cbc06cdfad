// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jeranaias/leoprime/internal/util"
)

// Image is an inline image returned by the image model.
type Image struct {
	Data     []byte
	MIMEType string
}

// Ext returns a file extension for the image's MIME type, ".png" when unknown.
func (img *Image) Ext() string {
	switch strings.ToLower(img.MIMEType) {
	case "image/png", "":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(img.MIMEType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

// Save writes the image atomically. A path without an extension gets Ext().
func (img *Image) Save(path string) (string, error) {
	if filepath.Ext(path) == "" {
		path += img.Ext()
	}
	if err := util.AtomicWriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("save visual: %w", err)
	}
	return path, nil
}

// Visual renders subject with the image model. It returns ErrNoImage when
// the answer carries no inline image.
func (c *Client) Visual(ctx context.Context, subject string) (*Image, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(VisualPrompt(subject), genai.RoleUser)}
	gc := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: c.cfg.AspectRatio},
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.ImageModel, contents, gc)
	if err != nil {
		c.logger.Error("visual failed", zap.String("model", c.cfg.ImageModel), zap.Error(err))
		return nil, fmt.Errorf("visual: %w", err)
	}

	img := firstImage(resp)
	if img == nil {
		c.logger.Warn("visual without image", zap.String("model", c.cfg.ImageModel))
		return nil, ErrNoImage
	}
	c.logger.Info("visual rendered",
		zap.String("mime", img.MIMEType),
		zap.Int("bytes", len(img.Data)))
	return img, nil
}

func firstImage(resp *genai.GenerateContentResponse) *Image {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}
		}
	}
	return nil
}

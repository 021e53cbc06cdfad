// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlatform is returned when a platform name is not recognized.
var ErrUnknownPlatform = errors.New("unknown platform")

// Platform is the device skin the interface emulates.
type Platform string

const (
	PlatformEnterprise Platform = "enterprise"
	PlatformAndroid    Platform = "android"
	PlatformIOS        Platform = "ios"
	PlatformPC         Platform = "pc"
)

// Platforms lists every platform in selector order.
var Platforms = []Platform{PlatformEnterprise, PlatformAndroid, PlatformIOS, PlatformPC}

// ParsePlatform resolves a case-insensitive platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want enterprise, android, ios or pc)", ErrUnknownPlatform, s)
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// Label returns the upper-case tag used in prompts and logs.
func (p Platform) Label() string {
	return strings.ToUpper(string(p))
}

// IsMobile reports whether the platform renders phone chrome.
func (p Platform) IsMobile() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

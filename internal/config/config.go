// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for leoprime.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.leoprime/config.toml
//   - ~/.leoprime/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/leoprime/internal/canvas"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete leoprime configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	Model   ModelConfig   `toml:"model" json:"model" yaml:"model"`
	Canvas  CanvasConfig  `toml:"canvas" json:"canvas" yaml:"canvas"`
	UI      UIConfig      `toml:"ui" json:"ui" yaml:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// ModelConfig contains Gemini provider settings.
type ModelConfig struct {
	// APIKey is the Gemini API key. Usually supplied through the environment.
	APIKey string `toml:"api_key" json:"api_key" yaml:"api_key"`
	// Chat is the model that answers directives.
	Chat string `toml:"chat" json:"chat" yaml:"chat"`
	// Analysis is the model that writes the assimilation status line.
	Analysis string `toml:"analysis" json:"analysis" yaml:"analysis"`
	// Image is the model used by /visual.
	Image string `toml:"image" json:"image" yaml:"image"`

	Temperature float64 `toml:"temperature" json:"temperature" yaml:"temperature"`
	TopP        float64 `toml:"top_p" json:"top_p" yaml:"top_p"`
	// ThinkingBudget is the chat model's thinking token budget. 0 leaves the model default.
	ThinkingBudget int `toml:"thinking_budget" json:"thinking_budget" yaml:"thinking_budget"`
	// AspectRatio of generated visuals, e.g. "16:9".
	AspectRatio string `toml:"aspect_ratio" json:"aspect_ratio" yaml:"aspect_ratio"`

	// RequestsPerMinute throttles outbound calls (0 = unlimited).
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute"`
	TimeoutSecs       int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	// AnalyzeReplies runs the analysis call after every chat reply.
	AnalyzeReplies bool `toml:"analyze_replies" json:"analyze_replies" yaml:"analyze_replies"`
}

// CanvasConfig contains particle field settings.
type CanvasConfig struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
	FPS     int  `toml:"fps" json:"fps" yaml:"fps"`

	// Intensity while idle and while a request is in flight.
	IdleIntensity   float64 `toml:"idle_intensity" json:"idle_intensity" yaml:"idle_intensity"`
	ActiveIntensity float64 `toml:"active_intensity" json:"active_intensity" yaml:"active_intensity"`

	BaseCount    int     `toml:"base_count" json:"base_count" yaml:"base_count"`
	CountScale   float64 `toml:"count_scale" json:"count_scale" yaml:"count_scale"`
	BaseSpeed    float64 `toml:"base_speed" json:"base_speed" yaml:"base_speed"`
	SpeedScale   float64 `toml:"speed_scale" json:"speed_scale" yaml:"speed_scale"`
	LinkDistance float64 `toml:"link_distance" json:"link_distance" yaml:"link_distance"`
	MaxLineWidth float64 `toml:"max_line_width" json:"max_line_width" yaml:"max_line_width"`

	// Surface units per terminal cell.
	CellWidth  float64 `toml:"cell_width" json:"cell_width" yaml:"cell_width"`
	CellHeight float64 `toml:"cell_height" json:"cell_height" yaml:"cell_height"`
	// Brightness gain applied before dots are thresholded.
	Gain float64 `toml:"gain" json:"gain" yaml:"gain"`
	// Rows of the field band above the chat once messages exist.
	BandRows int `toml:"band_rows" json:"band_rows" yaml:"band_rows"`
}

// UIConfig contains interface settings.
type UIConfig struct {
	// Platform is the initial device skin: enterprise, android, ios, pc.
	Platform string `toml:"platform" json:"platform" yaml:"platform"`
	// Theme is "auto", "dark" or "light".
	Theme       string `toml:"theme" json:"theme" yaml:"theme"`
	ShowSidebar bool   `toml:"show_sidebar" json:"show_sidebar" yaml:"show_sidebar"`
	Markdown    bool   `toml:"markdown" json:"markdown" yaml:"markdown"`
	// LogSize is how many entries the legacy log keeps.
	LogSize int `toml:"log_size" json:"log_size" yaml:"log_size"`
	// VisualDir is where generated images are written (empty = ~/.leoprime/visuals).
	VisualDir string `toml:"visual_dir" json:"visual_dir" yaml:"visual_dir"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level" yaml:"level"`
	// File is the log path (empty = ~/.leoprime/leoprime.log).
	File string `toml:"file" json:"file" yaml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	params := canvas.DefaultParams()
	return &Config{
		Version: "1.0.0",

		Model: ModelConfig{
			Chat:              model.Models["pro"].ID,
			Analysis:          model.Models["flash"].ID,
			Image:             model.Models["image"].ID,
			Temperature:       0.8,
			TopP:              0.95,
			ThinkingBudget:    32768,
			AspectRatio:       "16:9",
			RequestsPerMinute: 30,
			TimeoutSecs:       120,
			AnalyzeReplies:    true,
		},

		Canvas: CanvasConfig{
			Enabled:         true,
			FPS:             30,
			IdleIntensity:   0.2,
			ActiveIntensity: 1.0,
			BaseCount:       params.BaseCount,
			CountScale:      params.CountScale,
			BaseSpeed:       params.BaseSpeed,
			SpeedScale:      params.SpeedScale,
			LinkDistance:    params.LinkDistance,
			MaxLineWidth:    params.MaxLineWidth,
			CellWidth:       canvas.DefaultCellWidth,
			CellHeight:      canvas.DefaultCellHeight,
			Gain:            3,
			BandRows:        6,
		},

		UI: UIConfig{
			Platform:    string(model.PlatformEnterprise),
			Theme:       "auto",
			ShowSidebar: true,
			Markdown:    true,
			LogSize:     6,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Params converts the canvas section to animator parameters.
func (c CanvasConfig) Params() canvas.Params {
	p := canvas.DefaultParams()
	p.BaseCount = c.BaseCount
	p.CountScale = c.CountScale
	p.BaseSpeed = c.BaseSpeed
	p.SpeedScale = c.SpeedScale
	p.LinkDistance = c.LinkDistance
	p.MaxLineWidth = c.MaxLineWidth
	return p
}

// Intensity returns the field intensity for the loading state.
func (c CanvasConfig) Intensity(loading bool) float64 {
	if loading {
		return c.ActiveIntensity
	}
	return c.IdleIntensity
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the leoprime configuration directory path. LEO_HOME
// overrides the default ~/.leoprime.
func ConfigDir() (string, error) {
	if dir := os.Getenv("LEO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".leoprime"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LogPath returns the configured log file, defaulting into the config dir.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "leoprime.log"), nil
}

// VisualPath returns the directory generated images are written to.
func (c *Config) VisualPath() (string, error) {
	if c.UI.VisualDir != "" {
		return c.UI.VisualDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "visuals"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			loadErr = err
			continue
		}
		return cfg, nil
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	// Defaults, plus the load error (if any) for informational purposes
	return cfg, loadErr
}

// LoadFromPath loads a single TOML or JSON file, chosen by extension, and
// applies env overrides, defaults and validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRaw decodes path over the defaults without env overrides or
// validation. Edits round-trip through it so environment secrets are
// never written to disk. A missing file yields the defaults.
func LoadRaw(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with a short header.
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.Marshal("toml")
	if err != nil {
		return err
	}
	header := "# leoprime configuration file\n# Generated by leoprime - edit with care\n\n"
	if err := util.AtomicWriteFile(path, append([]byte(header), data...), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := cfg.Marshal("json")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToPath writes cfg in the format chosen by path's extension.
func SaveToPath(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cfg, path)
	case ".yaml", ".yml":
		data, err := cfg.Marshal("yaml")
		if err != nil {
			return err
		}
		if err := util.AtomicWriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		return nil
	default:
		return SaveTOML(cfg, path)
	}
}

// Marshal encodes the configuration as toml, json or yaml.
func (c *Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "toml", "":
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return []byte(sb.String()), nil
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want toml, json or yaml)", format)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Model
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		add("model.temperature", "must be between 0 and 2, got %v", c.Model.Temperature)
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		add("model.top_p", "must be between 0 and 1, got %v", c.Model.TopP)
	}
	if c.Model.ThinkingBudget < 0 || c.Model.ThinkingBudget > math.MaxInt32 {
		add("model.thinking_budget", "must be between 0 and %d, got %d", math.MaxInt32, c.Model.ThinkingBudget)
	}
	if c.Model.RequestsPerMinute < 0 {
		add("model.requests_per_minute", "must not be negative")
	}
	if c.Model.TimeoutSecs < 0 {
		add("model.timeout_secs", "must not be negative")
	}
	if c.Model.AspectRatio != "" && !validAspectRatio(c.Model.AspectRatio) {
		add("model.aspect_ratio", "invalid aspect ratio %q, want W:H", c.Model.AspectRatio)
	}

	// Canvas
	if c.Canvas.FPS < 1 || c.Canvas.FPS > 120 {
		add("canvas.fps", "must be between 1 and 120, got %d", c.Canvas.FPS)
	}
	if c.Canvas.IdleIntensity < 0 || c.Canvas.ActiveIntensity < 0 {
		add("canvas.intensity", "intensities must not be negative")
	}
	if c.Canvas.BaseCount < 0 {
		add("canvas.base_count", "must not be negative")
	}
	if c.Canvas.CountScale < 0 {
		add("canvas.count_scale", "must not be negative")
	}
	if c.Canvas.LinkDistance <= 0 {
		add("canvas.link_distance", "must be positive")
	}
	if c.Canvas.CellWidth <= 0 || c.Canvas.CellHeight <= 0 {
		add("canvas.cell_size", "cell width and height must be positive")
	}
	if c.Canvas.Gain <= 0 {
		add("canvas.gain", "must be positive")
	}
	if c.Canvas.BandRows < 0 {
		add("canvas.band_rows", "must not be negative")
	}

	// UI
	if _, err := model.ParsePlatform(c.UI.Platform); err != nil {
		add("ui.platform", "%v", err)
	}
	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "invalid theme %q, must be one of: auto, dark, light", c.UI.Theme)
	}
	if c.UI.LogSize < 1 {
		add("ui.log_size", "must be at least 1")
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "invalid level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validAspectRatio(s string) bool {
	w, h, ok := strings.Cut(s, ":")
	if !ok {
		return false
	}
	a, errA := strconv.Atoi(w)
	b, errB := strconv.Atoi(h)
	return errA == nil && errB == nil && a > 0 && b > 0
}

// SetDefaults fills empty string and zero-valued sizing fields.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Model.Chat == "" {
		c.Model.Chat = d.Model.Chat
	}
	if c.Model.Analysis == "" {
		c.Model.Analysis = d.Model.Analysis
	}
	if c.Model.Image == "" {
		c.Model.Image = d.Model.Image
	}
	if c.Canvas.FPS == 0 {
		c.Canvas.FPS = d.Canvas.FPS
	}
	if c.Canvas.LinkDistance == 0 {
		c.Canvas.LinkDistance = d.Canvas.LinkDistance
	}
	if c.Canvas.CellWidth == 0 {
		c.Canvas.CellWidth = d.Canvas.CellWidth
	}
	if c.Canvas.CellHeight == 0 {
		c.Canvas.CellHeight = d.Canvas.CellHeight
	}
	if c.Canvas.Gain == 0 {
		c.Canvas.Gain = d.Canvas.Gain
	}
	if c.UI.Platform == "" {
		c.UI.Platform = d.UI.Platform
	}
	c.UI.Platform = strings.ToLower(c.UI.Platform)
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.LogSize == 0 {
		c.UI.LogSize = d.UI.LogSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
//	LEO_API_KEY, GEMINI_API_KEY, API_KEY  model.api_key (first set wins)
//	LEO_MODEL                             model.chat
//	LEO_PLATFORM                          ui.platform
//	LEO_LOG_LEVEL                         logging.level
//	LEO_CANVAS                            canvas.enabled
func (c *Config) ApplyEnvOverrides() {
	for _, name := range []string{"LEO_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.Model.APIKey = key
			break
		}
	}
	if m := os.Getenv("LEO_MODEL"); m != "" {
		c.Model.Chat = m
	}
	if p := os.Getenv("LEO_PLATFORM"); p != "" {
		c.UI.Platform = p
	}
	if lvl := os.Getenv("LEO_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if v := os.Getenv("LEO_CANVAS"); v != "" {
		c.Canvas.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// GET/SET BY KEY
// =============================================================================

// Get returns a value by dotted key, e.g. "canvas.fps".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value by dotted key. String values are converted to the
// field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("cannot set section: %s", key)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName turns snake_case or kebab-case into CamelCase.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("cannot assign nil")
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" {
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, prefix+name+".", keys)
			continue
		}
		*keys = append(*keys, prefix+name)
	}
}

// Clone creates a copy of the configuration. Config holds only values, so a
// struct copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Redacted returns a copy with the API key masked.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Model.APIKey != "" {
		safe.Model.APIKey = "[REDACTED]"
	}
	return safe
}

// String returns a JSON rendering with secrets redacted.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first use.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

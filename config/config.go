package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ChristianF88/lsdsort/intutils"
)

const (
	DefaultWidth                  = 32
	DefaultWindowMaxTime          = 2 * time.Hour
	DefaultWindowMaxSize          = 100000
	DefaultSleepBetweenIterations = 10
)

// DefaultQuantiles are reported in live mode when none are configured
var DefaultQuantiles = []float64{0.5, 0.9, 0.99}

type GlobalConfig struct {
	Width      int    `toml:"width"`
	OutputFile string `toml:"outputFile"`
}

type StaticConfig struct {
	InputFile string `toml:"inputFile"`
	FromIndex int    `toml:"fromIndex"`
	ToIndex   *int   `toml:"toIndex"` // nil sorts to the end of the input
	PlotPath  string `toml:"plotPath"`
	Verify    bool   `toml:"verify"`
}

type LiveConfig struct {
	Port                   string        `toml:"port"`
	WindowMaxTime          time.Duration `toml:"windowMaxTime"`
	WindowMaxSize          int           `toml:"windowMaxSize"`
	SleepBetweenIterations int           `toml:"sleepBetweenIterations"`
	Quantiles              []float64     `toml:"quantiles"`
}

type Config struct {
	Global *GlobalConfig `toml:"global"`
	Static *StaticConfig `toml:"static"`
	Live   *LiveConfig   `toml:"live"`
}

// NewStaticConfig returns a Config with static defaults filled in
func NewStaticConfig(inputFile string) *Config {
	return &Config{
		Global: &GlobalConfig{Width: DefaultWidth},
		Static: &StaticConfig{InputFile: inputFile},
		Live:   newLiveConfig(),
	}
}

// NewLiveConfig returns a Config with live defaults filled in
func NewLiveConfig(port string) *Config {
	live := newLiveConfig()
	live.Port = port
	return &Config{
		Global: &GlobalConfig{Width: DefaultWidth},
		Static: &StaticConfig{},
		Live:   live,
	}
}

func newLiveConfig() *LiveConfig {
	return &LiveConfig{
		WindowMaxTime:          DefaultWindowMaxTime,
		WindowMaxSize:          DefaultWindowMaxSize,
		SleepBetweenIterations: DefaultSleepBetweenIterations,
		Quantiles:              append([]float64(nil), DefaultQuantiles...),
	}
}

func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(string(configData))
}

// ParseConfig parses TOML configuration content
func ParseConfig(content string) (*Config, error) {
	var rawConfig map[string]any
	if _, err := toml.Decode(content, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config := &Config{}

	for key, value := range rawConfig {
		section, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q must be a table", key)
		}
		switch key {
		case "global":
			global, err := parseGlobalConfig(section)
			if err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
			config.Global = global
		case "static":
			static, err := parseStaticConfig(section)
			if err != nil {
				return nil, fmt.Errorf("parsing static config: %w", err)
			}
			config.Static = static
		case "live":
			live, err := parseLiveConfig(section)
			if err != nil {
				return nil, fmt.Errorf("parsing live config: %w", err)
			}
			config.Live = live
		default:
			return nil, fmt.Errorf("unknown config section %q", key)
		}
	}

	if config.Global == nil {
		config.Global = &GlobalConfig{Width: DefaultWidth}
	}
	if config.Static == nil {
		config.Static = &StaticConfig{}
	}
	if config.Live == nil {
		config.Live = newLiveConfig()
	}

	return config, nil
}

// Typed lookups: a missing key reports ok=false, a key of the wrong type is an error.

func intValue(m map[string]any, key string) (int, bool, error) {
	raw, exists := m[key]
	if !exists {
		return 0, false, nil
	}
	v, ok := raw.(int64)
	if !ok {
		return 0, false, fmt.Errorf("%s must be an integer, got %T", key, raw)
	}
	return int(v), true, nil
}

func stringValue(m map[string]any, key string) (string, bool, error) {
	raw, exists := m[key]
	if !exists {
		return "", false, nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string, got %T", key, raw)
	}
	return v, true, nil
}

func boolValue(m map[string]any, key string) (bool, bool, error) {
	raw, exists := m[key]
	if !exists {
		return false, false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%s must be a boolean, got %T", key, raw)
	}
	return v, true, nil
}

func parseGlobalConfig(m map[string]any) (*GlobalConfig, error) {
	config := &GlobalConfig{Width: DefaultWidth}
	width, ok, err := intValue(m, "width")
	if err != nil {
		return nil, err
	}
	if ok {
		if !intutils.IsValidWidth(width) {
			return nil, fmt.Errorf("invalid width %d: must be one of %v", width, intutils.SupportedWidths)
		}
		config.Width = width
	}
	if config.OutputFile, _, err = stringValue(m, "outputFile"); err != nil {
		return nil, err
	}
	return config, nil
}

func parseStaticConfig(m map[string]any) (*StaticConfig, error) {
	config := &StaticConfig{}
	var err error
	if config.InputFile, _, err = stringValue(m, "inputFile"); err != nil {
		return nil, err
	}
	if config.FromIndex, _, err = intValue(m, "fromIndex"); err != nil {
		return nil, err
	}
	to, ok, err := intValue(m, "toIndex")
	if err != nil {
		return nil, err
	}
	if ok {
		config.ToIndex = &to
	}
	if config.PlotPath, _, err = stringValue(m, "plotPath"); err != nil {
		return nil, err
	}
	if config.Verify, _, err = boolValue(m, "verify"); err != nil {
		return nil, err
	}
	return config, nil
}

func parseLiveConfig(m map[string]any) (*LiveConfig, error) {
	config := newLiveConfig()
	switch v := m["port"].(type) {
	case nil:
	case string:
		config.Port = v
	case int64:
		config.Port = fmt.Sprintf("%d", v)
	default:
		return nil, fmt.Errorf("port must be a string or an integer, got %T", v)
	}

	windowMaxTime, ok, err := stringValue(m, "windowMaxTime")
	if err != nil {
		return nil, err
	}
	if ok {
		duration, err := time.ParseDuration(windowMaxTime)
		if err != nil {
			return nil, fmt.Errorf("invalid windowMaxTime %q: %w", windowMaxTime, err)
		}
		config.WindowMaxTime = duration
	}

	if v, ok, err := intValue(m, "windowMaxSize"); err != nil {
		return nil, err
	} else if ok {
		config.WindowMaxSize = v
	}
	if v, ok, err := intValue(m, "sleepBetweenIterations"); err != nil {
		return nil, err
	} else if ok {
		config.SleepBetweenIterations = v
	}

	if raw, exists := m["quantiles"]; exists {
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("quantiles must be an array, got %T", raw)
		}
		config.Quantiles = config.Quantiles[:0]
		for _, item := range items {
			var q float64
			if f, ok := item.(float64); ok {
				q = f
			} else if i, ok := item.(int64); ok {
				q = float64(i)
			} else {
				return nil, fmt.Errorf("invalid quantile %v", item)
			}
			if q < 0 || q > 1 {
				return nil, fmt.Errorf("quantile %v out of [0, 1]", q)
			}
			config.Quantiles = append(config.Quantiles, q)
		}
	}
	return config, nil
}

// GetWidth returns the configured integer width in bits
func (c *Config) GetWidth() int {
	if c.Global != nil && c.Global.Width != 0 {
		return c.Global.Width
	}
	return DefaultWidth
}

func (c *Config) GetOutputFile() string {
	if c.Global != nil {
		return c.Global.OutputFile
	}
	return ""
}

func (c *Config) ValidateStatic() error {
	if c.Static == nil {
		return fmt.Errorf("static configuration section is required")
	}

	if c.Static.InputFile == "" {
		return fmt.Errorf("inputFile is required in static configuration")
	}

	// Check if input file exists
	if _, err := os.Stat(c.Static.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", c.Static.InputFile)
	}

	if !intutils.IsValidWidth(c.GetWidth()) {
		return fmt.Errorf("invalid width %d: must be one of %v", c.GetWidth(), intutils.SupportedWidths)
	}

	// Range bounds are checked against the input length after ingestion.
	// PlotPath and OutputFile are optional.

	return nil
}

func (c *Config) ValidateLive() error {
	if c.Live == nil {
		return fmt.Errorf("live configuration section is required")
	}

	if c.Live.Port == "" {
		return fmt.Errorf("port is required in live configuration")
	}

	if c.Live.WindowMaxSize < 0 {
		return fmt.Errorf("windowMaxSize must not be negative")
	}

	if c.Live.WindowMaxTime < 0 {
		return fmt.Errorf("windowMaxTime must not be negative")
	}

	if c.Live.SleepBetweenIterations < 0 {
		return fmt.Errorf("sleepBetweenIterations must not be negative")
	}

	if !intutils.IsValidWidth(c.GetWidth()) {
		return fmt.Errorf("invalid width %d: must be one of %v", c.GetWidth(), intutils.SupportedWidths)
	}

	return nil
}

// ResolveRange returns the static sort range for an input of length n.
// An unset toIndex becomes n; the result is not validated, so an explicit
// negative toIndex reaches the sort and is rejected there.
func (c *Config) ResolveRange(n int) (int, int) {
	if c.Static == nil {
		return 0, n
	}
	to := n
	if c.Static.ToIndex != nil {
		to = *c.Static.ToIndex
	}
	return c.Static.FromIndex, to
}

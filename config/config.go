// Package config loads operator panel settings from TOML with environment
// overrides
//
// Precedence: built-in defaults, then the TOML file, then VI_OPERATOR_*
// variables. The priority ordering is fixed in code and not configurable.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/lixenwraith/vi-operator/display"
	"github.com/lixenwraith/vi-operator/operator"
	"github.com/lixenwraith/vi-operator/parameter"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "VI_OPERATOR_"

// Roster lists operator numbers and names, paired by index
type Roster struct {
	Numbers []int    `toml:"numbers" env:"NUMBERS" envSeparator:","`
	Names   []string `toml:"names" env:"NAMES" envSeparator:","`
}

// Colors are panel name colors as #RRGGBB
type Colors struct {
	Operator   string `toml:"operator" env:"OPERATOR"`
	Physical   string `toml:"physical" env:"PHYSICAL"`
	Optical    string `toml:"optical" env:"OPTICAL"`
	ForceField string `toml:"force_field" env:"FORCE_FIELD"`
	CoreTech   string `toml:"core_tech" env:"CORE_TECH"`
}

// Audio controls voice playback
type Audio struct {
	Enabled   bool   `toml:"enabled" env:"ENABLED"`
	VoiceRoot string `toml:"voice_root" env:"VOICE_ROOT"`
	Volume    int    `toml:"volume" env:"VOLUME"`
}

// Log controls the structured logger
type Log struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
	Path   string `toml:"path" env:"PATH"`
}

// Config is the full operator configuration
type Config struct {
	Stacking             bool    `toml:"stacking" env:"STACKING"`
	PanelLifetimeSeconds float64 `toml:"panel_lifetime_seconds" env:"PANEL_LIFETIME_SECONDS"`
	TickMillis           int     `toml:"tick_ms" env:"TICK_MS"`
	Language             string  `toml:"language" env:"LANGUAGE"`
	Catalog              string  `toml:"catalog" env:"CATALOG"`

	Roster Roster `toml:"roster" envPrefix:"ROSTER_"`
	Colors Colors `toml:"colors" envPrefix:"COLOR_"`
	Audio  Audio  `toml:"audio" envPrefix:"AUDIO_"`
	Log    Log    `toml:"log" envPrefix:"LOG_"`
}

// ConfigError reports an invalid setting
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Stacking:             parameter.DefaultStacking,
		PanelLifetimeSeconds: parameter.DefaultPanelLifetime.Seconds(),
		TickMillis:           int(parameter.GameUpdateInterval / time.Millisecond),
		Language:             "en",
		Catalog:              "operators.toml",
		Roster: Roster{
			Numbers: []int{1, 2, 4},
			Names:   []string{"James", "Marion", "Fred"},
		},
		Colors: Colors{
			Operator:   "#7882E6",
			Physical:   "#FF4600",
			Optical:    "#00B4FF",
			ForceField: "#F04682",
			CoreTech:   "#00FFFF",
		},
		Audio: Audio{Enabled: false, VoiceRoot: "voices", Volume: 80},
		Log:   Log{Level: "info", Format: "text"},
	}
}

// Load reads path over defaults then applies environment overrides
// A missing file is not an error; defaults and environment still apply
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(bytes.NewReader(data), &cfg); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML over defaults without consulting the environment
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks ranges and cross-field consistency
func (c Config) Validate() error {
	if c.PanelLifetimeSeconds < 0 {
		return &ConfigError{Field: "panel_lifetime_seconds", Reason: "must not be negative"}
	}
	if c.TickMillis <= 0 {
		return &ConfigError{Field: "tick_ms", Reason: "must be positive"}
	}
	if _, err := language.Parse(c.Language); err != nil {
		return &ConfigError{Field: "language", Reason: err.Error()}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return &ConfigError{Field: "audio.volume", Reason: "must be within 0-100"}
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if err := c.OperatorRoster().Validate(); err != nil {
		return &ConfigError{Field: "roster", Reason: err.Error()}
	}
	return nil
}

// DisplayConfig returns the driver options
func (c Config) DisplayConfig() display.Config {
	return display.Config{
		Stacking: c.Stacking,
		Lifetime: c.PanelLifetime(),
	}
}

// PanelLifetime returns the default lifetime as a duration
func (c Config) PanelLifetime() time.Duration {
	return time.Duration(c.PanelLifetimeSeconds * float64(time.Second))
}

// TickInterval returns the logic tick interval
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// LanguageTag returns the message formatting language
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// OperatorRoster converts the roster section
func (c Config) OperatorRoster() operator.Roster {
	return operator.Roster{Numbers: c.Roster.Numbers, Names: c.Roster.Names}
}

// Palette parses the color section
func (c Config) Palette() (display.Palette, error) {
	var p display.Palette
	fields := []struct {
		name string
		hex  string
		dst  *display.RGB
	}{
		{"colors.operator", c.Colors.Operator, &p.Operator},
		{"colors.physical", c.Colors.Physical, &p.Physical},
		{"colors.optical", c.Colors.Optical, &p.Optical},
		{"colors.force_field", c.Colors.ForceField, &p.ForceField},
		{"colors.core_tech", c.Colors.CoreTech, &p.CoreTech},
	}
	for _, f := range fields {
		rgb, err := ParseHexColor(f.hex)
		if err != nil {
			return display.Palette{}, &ConfigError{Field: f.name, Reason: err.Error()}
		}
		*f.dst = rgb
	}
	return p, nil
}

// ParseHexColor parses #RRGGBB
func ParseHexColor(s string) (display.RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return display.RGB{}, fmt.Errorf("color %q is not #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return display.RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return display.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultYAML []byte

const (
	PlacementLatest      = "latest"
	PlacementTimestamped = "timestamped"
)

var (
	ErrInvalid = errors.New("config: invalid")
	// ErrEmptyFile is returned for a zero-length file, which is usually an
	// editor caught between truncating and writing.
	ErrEmptyFile = errors.New("config: empty file")
)

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

type CameraConfig struct {
	Scale    float64 `yaml:"scale"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	ZoomStep float64 `yaml:"zoom_step"`
}

type CursorConfig struct {
	History int `yaml:"history"`
}

type DropConfig struct {
	Placement  string        `yaml:"placement"`
	Depth      float64       `yaml:"depth"`
	StaleAfter time.Duration `yaml:"stale_after"`
	Marker     bool          `yaml:"marker"`
	Watch      bool          `yaml:"watch"`
}

type HUDConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Cursor CursorConfig `yaml:"cursor"`
	Drop   DropConfig   `yaml:"drop"`
	HUD    HUDConfig    `yaml:"hud"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic("config: embedded default: " + err.Error())
	}
	return cfg
}

// Parse decodes data over the embedded defaults, so a file only needs the
// keys it changes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal default: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	cam := c.Camera
	if cam.MinScale <= 0 || cam.MaxScale < cam.MinScale {
		return fmt.Errorf("%w: camera scale limits [%g, %g]", ErrInvalid, cam.MinScale, cam.MaxScale)
	}
	if cam.Scale < cam.MinScale || cam.Scale > cam.MaxScale {
		return fmt.Errorf("%w: camera scale %g outside [%g, %g]", ErrInvalid, cam.Scale, cam.MinScale, cam.MaxScale)
	}
	if cam.ZoomStep <= 0 || cam.ZoomStep >= 1 {
		return fmt.Errorf("%w: camera zoom_step %g", ErrInvalid, cam.ZoomStep)
	}
	if c.Cursor.History <= 0 {
		return fmt.Errorf("%w: cursor history %d", ErrInvalid, c.Cursor.History)
	}
	switch c.Drop.Placement {
	case PlacementLatest, PlacementTimestamped:
	default:
		return fmt.Errorf("%w: drop placement %q", ErrInvalid, c.Drop.Placement)
	}
	if c.Drop.StaleAfter < 0 {
		return fmt.Errorf("%w: drop stale_after %s", ErrInvalid, c.Drop.StaleAfter)
	}
	return nil
}

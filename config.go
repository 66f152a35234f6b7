package hellotriangle

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot be loaded or
// fails validation.
var ErrInvalidConfig = errors.New("hellotriangle: invalid config")

// Supersample bounds accepted by Validate.
const (
	MinSupersample = 1
	MaxSupersample = 8
)

// maxConfigSize caps the size of a YAML config file.
const maxConfigSize = 1 << 20

// Config holds the run settings. Zero values are not meaningful; start from
// DefaultConfig and apply the With builders.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// Headless renders in software without opening a window.
	Headless bool `yaml:"headless"`

	// Frames is the number of frames rendered in headless mode.
	Frames int `yaml:"frames"`

	// Start and Step drive the headless clock: frame n sees Start + n*Step seconds.
	Start float64 `yaml:"start"`
	Step  float64 `yaml:"step"`

	// Output is the PNG path for the last headless frame. Empty disables output.
	Output string `yaml:"output"`

	// Supersample is the per-axis sample factor of the software rasterizer.
	Supersample int `yaml:"supersample"`

	// ClearColor is the RGBA background in [0,1].
	ClearColor [4]float64 `yaml:"clear_color,flow"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings of the classic demo window.
func DefaultConfig() Config {
	return Config{
		Width:       640,
		Height:      480,
		Title:       "Hello Triangle",
		Frames:      1,
		Step:        1.0 / 60.0,
		Supersample: 2,
		ClearColor:  [4]float64{0, 0, 0, 1},
		LogLevel:    "info",
	}
}

// WithTitle sets the window title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize sets the window (or headless framebuffer) size in pixels.
func (c Config) WithSize(width, height int) Config {
	c.Width = width
	c.Height = height
	return c
}

// WithHeadless switches between the windowed and the software renderer.
func (c Config) WithHeadless(headless bool) Config {
	c.Headless = headless
	return c
}

// WithFrames sets the headless frame count.
func (c Config) WithFrames(n int) Config {
	c.Frames = n
	return c
}

// WithClock sets the headless clock origin and per-frame step in seconds.
func (c Config) WithClock(start, step float64) Config {
	c.Start = start
	c.Step = step
	return c
}

// WithOutput sets the PNG output path.
func (c Config) WithOutput(path string) Config {
	c.Output = path
	return c
}

// WithSupersample sets the software rasterizer sample factor.
func (c Config) WithSupersample(n int) Config {
	c.Supersample = n
	return c
}

// WithClearColor sets the background colour.
func (c Config) WithClearColor(r, g, b, a float64) Config {
	c.ClearColor = [4]float64{r, g, b, a}
	return c
}

// WithLogLevel sets the log level name.
func (c Config) WithLogLevel(level string) Config {
	c.LogLevel = level
	return c
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d is negative", ErrInvalidConfig, c.Frames)
	case c.Step < 0:
		return fmt.Errorf("%w: step %g is negative", ErrInvalidConfig, c.Step)
	case c.Supersample < MinSupersample || c.Supersample > MaxSupersample:
		return fmt.Errorf("%w: supersample %d outside %d..%d",
			ErrInvalidConfig, c.Supersample, MinSupersample, MaxSupersample)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %g outside [0,1]", ErrInvalidConfig, i, v)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their default values. The result is not validated, so callers
// can apply overrides first and call Validate once on the final Config.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrInvalidConfig, path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := decodeConfig(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	Logger().Debug("config loaded", "path", path)
	return cfg, nil
}

// ParseConfig decodes YAML into cfg, leaving fields absent from data
// untouched, then validates the result.
func ParseConfig(data []byte, cfg *Config) error {
	if err := decodeConfig(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func decodeConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

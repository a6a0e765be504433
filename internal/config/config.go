// Package config loads sketchrender settings from an HCL file, an optional
// .env file and SKETCH_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
)

// Library defaults
const (
	DefaultOrigin    = "https://esm.sh"
	DefaultModuleURL = "https://esm.sh/@excalidraw/excalidraw@0.18.0"
)

// DefaultPath is where Load looks when no path is given
const DefaultPath = "~/.config/sketchrender/config.hcl"

// Config holds every setting
type Config struct {
	Browser BrowserConfig
	Library LibraryConfig
	Render  RenderConfig
	Output  OutputConfig
	Log     LogConfig
}

// BrowserConfig configures the headless Chromium process
type BrowserConfig struct {
	Bin       string // empty lets rod locate or download a browser
	Headless  bool
	NoSandbox bool
}

// LibraryConfig locates the drawing library loaded into the page
type LibraryConfig struct {
	Origin     string
	ModuleURL  string
	FontSettle time.Duration
	Preflight  bool // check the module URL over HTTP before launching
}

// RenderConfig holds render defaults and timeouts
type RenderConfig struct {
	Format         string
	Scale          float64
	VisibleTimeout time.Duration
	ProbeTimeout   time.Duration
}

// OutputConfig controls generated output paths
type OutputConfig struct {
	Dir    string // empty means the OS temp dir
	Prefix string
}

// LogConfig controls the process logger
type LogConfig struct {
	Level string
	JSON  bool
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{Headless: true},
		Library: LibraryConfig{
			Origin:     DefaultOrigin,
			ModuleURL:  DefaultModuleURL,
			FontSettle: time.Second,
		},
		Render: RenderConfig{
			Format:         "png",
			Scale:          2,
			VisibleTimeout: 10 * time.Second,
			ProbeTimeout:   5 * time.Second,
		},
		Output: OutputConfig{Prefix: "excalidraw"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration. An empty path means $SKETCH_CONFIG, then
// DefaultPath; a missing default file is not an error. envFile, when not
// empty, is loaded into the environment first without overriding
// variables that are already set.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("SKETCH_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
	}

	cfg := Default()
	src, err := os.ReadFile(expanded)
	switch {
	case err == nil:
		if err := cfg.decode(src, expanded); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes HCL source over the defaults and validates the result
func Parse(src []byte, filename string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(src, filename); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	switch strings.ToLower(c.Render.Format) {
	case "png", "svg":
	default:
		result = multierror.Append(result, fmt.Errorf("render.format must be png or svg, got %q", c.Render.Format))
	}
	if c.Render.Scale <= 0 || math.IsInf(c.Render.Scale, 0) || math.IsNaN(c.Render.Scale) {
		result = multierror.Append(result, fmt.Errorf("render.scale must be positive, got %g", c.Render.Scale))
	}
	if c.Render.VisibleTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("render.visible_timeout must be positive"))
	}
	if c.Render.ProbeTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("render.probe_timeout must be positive"))
	}
	if c.Library.FontSettle < 0 {
		result = multierror.Append(result, fmt.Errorf("library.font_settle must not be negative"))
	}
	if c.Library.ModuleURL == "" {
		result = multierror.Append(result, fmt.Errorf("library.module_url must be set"))
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		result = multierror.Append(result, fmt.Errorf("output.prefix must not contain path separators"))
	}
	if hclog.LevelFromString(c.Log.Level) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("log.level %q is not a valid level", c.Log.Level))
	}

	return result.ErrorOrNil()
}

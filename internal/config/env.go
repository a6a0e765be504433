package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SKETCH_"

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from SKETCH_* variables
func (c *Config) ApplyEnv() error {
	var result *multierror.Error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = b
	}
	duration := func(name string, dst *time.Duration) {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = d
	}

	str("BROWSER_BIN", &c.Browser.Bin)
	boolean("HEADLESS", &c.Browser.Headless)
	boolean("NO_SANDBOX", &c.Browser.NoSandbox)

	str("LIBRARY_ORIGIN", &c.Library.Origin)
	str("LIBRARY_URL", &c.Library.ModuleURL)
	duration("FONT_SETTLE", &c.Library.FontSettle)
	boolean("PREFLIGHT", &c.Library.Preflight)

	str("FORMAT", &c.Render.Format)
	if v, ok := os.LookupEnv(EnvPrefix + "SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sSCALE: %w", EnvPrefix, err))
		} else {
			c.Render.Scale = f
		}
	}
	duration("VISIBLE_TIMEOUT", &c.Render.VisibleTimeout)
	duration("PROBE_TIMEOUT", &c.Render.ProbeTimeout)

	str("OUTPUT_DIR", &c.Output.Dir)
	str("OUTPUT_PREFIX", &c.Output.Prefix)

	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_JSON", &c.Log.JSON)

	return result.ErrorOrNil()
}

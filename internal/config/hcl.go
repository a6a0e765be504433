package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// file mirrors the HCL layout. Every attribute is optional; absent ones
// keep their default.
type file struct {
	Browser *browserBlock `hcl:"browser,block"`
	Library *libraryBlock `hcl:"library,block"`
	Render  *renderBlock  `hcl:"render,block"`
	Output  *outputBlock  `hcl:"output,block"`
	Log     *logBlock     `hcl:"log,block"`
}

type browserBlock struct {
	Bin       *string `hcl:"bin,optional"`
	Headless  *bool   `hcl:"headless,optional"`
	NoSandbox *bool   `hcl:"no_sandbox,optional"`
}

type libraryBlock struct {
	Origin     *string `hcl:"origin,optional"`
	ModuleURL  *string `hcl:"module_url,optional"`
	FontSettle *string `hcl:"font_settle,optional"`
	Preflight  *bool   `hcl:"preflight,optional"`
}

type renderBlock struct {
	Format         *string  `hcl:"format,optional"`
	Scale          *float64 `hcl:"scale,optional"`
	VisibleTimeout *string  `hcl:"visible_timeout,optional"`
	ProbeTimeout   *string  `hcl:"probe_timeout,optional"`
}

type outputBlock struct {
	Dir    *string `hcl:"dir,optional"`
	Prefix *string `hcl:"prefix,optional"`
}

type logBlock struct {
	Level *string `hcl:"level,optional"`
	JSON  *bool   `hcl:"json,optional"`
}

// evalContext exposes env.<NAME>, tmpdir and home to expressions
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !hclIdentifier(name) {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	vars := map[string]cty.Value{
		"env":    cty.ObjectVal(env),
		"tmpdir": cty.StringVal(os.TempDir()),
	}
	if home, err := os.UserHomeDir(); err == nil {
		vars["home"] = cty.StringVal(home)
	}
	return &hcl.EvalContext{Variables: vars}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func (c *Config) decode(src []byte, filename string) error {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("HCL parse errors: %s", diags.Error())
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &raw); diags.HasErrors() {
		return fmt.Errorf("invalid config %s: %s", filename, diags.Error())
	}

	var result *multierror.Error
	duration := func(field string, src *string, dst *time.Duration) {
		if src == nil {
			return
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", field, err))
			return
		}
		*dst = d
	}

	if b := raw.Browser; b != nil {
		setString(&c.Browser.Bin, b.Bin)
		setBool(&c.Browser.Headless, b.Headless)
		setBool(&c.Browser.NoSandbox, b.NoSandbox)
	}
	if b := raw.Library; b != nil {
		setString(&c.Library.Origin, b.Origin)
		setString(&c.Library.ModuleURL, b.ModuleURL)
		duration("library.font_settle", b.FontSettle, &c.Library.FontSettle)
		setBool(&c.Library.Preflight, b.Preflight)
	}
	if b := raw.Render; b != nil {
		setString(&c.Render.Format, b.Format)
		if b.Scale != nil {
			c.Render.Scale = *b.Scale
		}
		duration("render.visible_timeout", b.VisibleTimeout, &c.Render.VisibleTimeout)
		duration("render.probe_timeout", b.ProbeTimeout, &c.Render.ProbeTimeout)
	}
	if b := raw.Output; b != nil {
		setString(&c.Output.Dir, b.Dir)
		setString(&c.Output.Prefix, b.Prefix)
	}
	if b := raw.Log; b != nil {
		setString(&c.Log.Level, b.Level)
		setBool(&c.Log.JSON, b.JSON)
	}

	return result.ErrorOrNil()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Render.Scale != 2 || cfg.Render.VisibleTimeout != 10*time.Second || cfg.Render.ProbeTimeout != 5*time.Second {
		t.Errorf("unexpected render defaults: %+v", cfg.Render)
	}
	if !cfg.Browser.Headless {
		t.Error("browser should default to headless")
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SKETCH_TEST_BIN", "/opt/chromium/chrome")

	src := `
browser {
  bin        = env.SKETCH_TEST_BIN
  no_sandbox = true
}

library {
  module_url  = "http://localhost:8080/excalidraw.js"
  font_settle = "250ms"
}

render {
  format          = "svg"
  scale           = 1.5
  visible_timeout = "3s"
}

output {
  dir    = "${tmpdir}/diagrams"
  prefix = "sketch"
}

log {
  level = "debug"
}
`
	cfg, err := Parse([]byte(src), "config.hcl")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	if cfg.Browser.Bin != "/opt/chromium/chrome" || !cfg.Browser.NoSandbox || !cfg.Browser.Headless {
		t.Errorf("browser = %+v", cfg.Browser)
	}
	if cfg.Library.ModuleURL != "http://localhost:8080/excalidraw.js" || cfg.Library.FontSettle != 250*time.Millisecond {
		t.Errorf("library = %+v", cfg.Library)
	}
	if cfg.Library.Origin != DefaultOrigin {
		t.Errorf("library.origin = %s, want default", cfg.Library.Origin)
	}
	if cfg.Render.Format != "svg" || cfg.Render.Scale != 1.5 || cfg.Render.VisibleTimeout != 3*time.Second {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.ProbeTimeout != 5*time.Second {
		t.Errorf("render.probe_timeout = %s, want default", cfg.Render.ProbeTimeout)
	}
	if cfg.Output.Dir != filepath.Join(os.TempDir(), "diagrams") && cfg.Output.Dir != os.TempDir()+"/diagrams" {
		t.Errorf("output.dir = %s", cfg.Output.Dir)
	}
	if cfg.Output.Prefix != "sketch" || cfg.Log.Level != "debug" {
		t.Errorf("output/log = %+v %+v", cfg.Output, cfg.Log)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr []string
	}{
		{
			name:    "syntax",
			src:     `render {`,
			wantErr: []string{"HCL parse errors"},
		},
		{
			name:    "unknown block",
			src:     `printer {}`,
			wantErr: []string{"printer"},
		},
		{
			name:    "bad duration",
			src:     `render { visible_timeout = "soon" }`,
			wantErr: []string{"render.visible_timeout"},
		},
		{
			name: "collects every problem",
			src: `
render {
  format = "gif"
  scale  = -1
}
log { level = "loud" }
`,
			wantErr: []string{"render.format", "render.scale", "log.level"},
		},
		{
			name:    "prefix with separator",
			src:     `output { prefix = "a/b" }`,
			wantErr: []string{"output.prefix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "config.hcl")
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Parse() error = %v, want mention of %q", err, want)
				}
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SKETCH_FORMAT", "svg")
	t.Setenv("SKETCH_SCALE", "3")
	t.Setenv("SKETCH_NO_SANDBOX", "true")
	t.Setenv("SKETCH_PROBE_TIMEOUT", "2s")
	t.Setenv("SKETCH_OUTPUT_DIR", "/var/tmp/out")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() unexpected error: %v", err)
	}
	if cfg.Render.Format != "svg" || cfg.Render.Scale != 3 || cfg.Render.ProbeTimeout != 2*time.Second {
		t.Errorf("render = %+v", cfg.Render)
	}
	if !cfg.Browser.NoSandbox || cfg.Output.Dir != "/var/tmp/out" {
		t.Errorf("browser/output = %+v %+v", cfg.Browser, cfg.Output)
	}

	t.Setenv("SKETCH_HEADLESS", "maybe")
	t.Setenv("SKETCH_SCALE", "big")
	err := Default().ApplyEnv()
	if err == nil {
		t.Fatal("ApplyEnv() expected error for malformed values")
	}
	for _, want := range []string{"SKETCH_HEADLESS", "SKETCH_SCALE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("ApplyEnv() error = %v, want mention of %s", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.hcl")
	if err := os.WriteFile(path, []byte(`render { scale = 4 }`), 0644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SKETCH_OUTPUT_PREFIX=fromenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SKETCH_OUTPUT_PREFIX") })

	cfg, err := Load(path, envFile)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Render.Scale != 4 {
		t.Errorf("render.scale = %g, want 4", cfg.Render.Scale)
	}
	if cfg.Output.Prefix != "fromenv" {
		t.Errorf("output.prefix = %s, want value from env file", cfg.Output.Prefix)
	}

	if _, err := Load(filepath.Join(dir, "missing.hcl"), ""); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKETCH_CONFIG", "")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() without any file unexpected error: %v", err)
	}
	if cfg.Render.Format != "png" {
		t.Errorf("render.format = %s, want default", cfg.Render.Format)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn"}.NewLogger("sketchrender", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "sketchrender") {
		t.Errorf("unexpected log output: %s", out)
	}
}

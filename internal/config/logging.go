package config

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates the process logger. Output defaults to stderr since
// stdout may carry a protocol stream.
func (c LogConfig) NewLogger(name string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := hclog.LevelFromString(c.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     w,
		JSONFormat: c.JSON,
	})
}

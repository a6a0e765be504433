// Package session owns the single rendering surface of the process. The
// surface is created on first use, probed before every reuse, and torn down
// and recreated transparently when the probe fails.
//
// A Manager does no locking of its own: callers must not use it from
// concurrent goroutines.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-sketch/internal/renderr"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
)

// State is the lifecycle state of the managed surface
type State int

const (
	// Absent means no surface exists
	Absent State = iota
	// Live means a surface exists and passed its last check
	Live
	// Degraded is transient: the probe failed and teardown is in progress
	Degraded
)

func (s State) String() string {
	switch s {
	case Absent:
		return "ABSENT"
	case Live:
		return "LIVE"
	case Degraded:
		return "DEGRADED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Default timings
const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultFontSettle   = time.Second
)

// Checker verifies an external dependency before a surface is launched
type Checker interface {
	Check(ctx context.Context) error
}

// Options configures how a fresh surface is set up
type Options struct {
	// Origin is navigated to before the init script runs so that the
	// library's relative module imports resolve
	Origin string
	// ModuleURL is the drawing library module imported by the init script
	ModuleURL string
	// FontSettle is how long the init script waits for fonts to load
	FontSettle time.Duration
	// ProbeTimeout bounds the liveness probe
	ProbeTimeout time.Duration
	// Preflight, if set, runs before every launch
	Preflight Checker
	Logger    hclog.Logger
}

// Manager is the sole owner of the rendering surface
type Manager struct {
	launcher surface.Launcher
	opts     Options
	logger   hclog.Logger

	current surface.Surface
	state   State
}

// New creates a manager in the Absent state
func New(l surface.Launcher, opts Options) *Manager {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.FontSettle < 0 {
		opts.FontSettle = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Manager{
		launcher: l,
		opts:     opts,
		logger:   logger.Named("session"),
		state:    Absent,
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	return m.state
}

// With runs fn against a live surface. The surface must not be retained
// after fn returns. A failed liveness probe causes one teardown and
// recreation within the same call; a surface that cannot be initialized is
// reported as an InitializationError and leaves the manager Absent, so the
// next call starts from scratch.
func (m *Manager) With(ctx context.Context, fn func(surface.Surface) error) error {
	s, err := m.ensure(ctx)
	if err != nil {
		return err
	}
	return fn(s)
}

// Shutdown closes the surface if one exists. Close errors are logged and
// discarded. Calling Shutdown on an Absent manager does nothing.
func (m *Manager) Shutdown(ctx context.Context) {
	if m.current == nil {
		return
	}
	m.logger.Debug("shutting down rendering surface")
	m.release()
}

func (m *Manager) ensure(ctx context.Context) (surface.Surface, error) {
	if m.current != nil {
		err := m.probe(ctx)
		if err == nil {
			return m.current, nil
		}

		m.state = Degraded
		m.logger.Warn("rendering surface failed liveness probe, recreating", "error", err)
		m.release()
	}

	return m.create(ctx)
}

func (m *Manager) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.ProbeTimeout)
	defer cancel()

	var alive bool
	if err := m.current.Run(ctx, surface.ProbeScript, &alive); err != nil {
		return err
	}
	if !alive {
		return errors.New("liveness probe returned false")
	}
	return nil
}

func (m *Manager) create(ctx context.Context) (surface.Surface, error) {
	if m.opts.Preflight != nil {
		if err := m.opts.Preflight.Check(ctx); err != nil {
			return nil, renderr.Initialization(err, "drawing library is unreachable")
		}
	}

	started := time.Now()
	s, err := m.launcher.Launch(ctx)
	if err != nil {
		return nil, renderr.Initialization(err, "failed to start rendering surface")
	}

	if err := m.setup(ctx, s); err != nil {
		closeQuietly(m.logger, s)
		return nil, renderr.Initialization(err, "rendering surface failed to initialize")
	}

	m.current = s
	m.state = Live
	m.logger.Info("rendering surface ready", "elapsed", time.Since(started).Round(time.Millisecond))
	return s, nil
}

func (m *Manager) setup(ctx context.Context, s surface.Surface) error {
	if m.opts.Origin != "" {
		if err := s.Navigate(ctx, m.opts.Origin); err != nil {
			return err
		}
	}

	if err := s.Run(ctx, surface.InitScript, nil, m.opts.ModuleURL, m.opts.FontSettle.Milliseconds()); err != nil {
		return fmt.Errorf("init script failed: %w", err)
	}

	var ready bool
	if err := s.Run(ctx, surface.ReadyScript, &ready); err != nil {
		return fmt.Errorf("readiness check failed: %w", err)
	}
	if !ready {
		return errors.New("readiness signal not observed")
	}
	return nil
}

// release drops the surface and closes it best-effort
func (m *Manager) release() {
	s := m.current
	m.current = nil
	m.state = Absent
	closeQuietly(m.logger, s)
}

func closeQuietly(logger hclog.Logger, s surface.Surface) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		logger.Debug("ignoring error while closing rendering surface", "error", err)
	}
}

package renderer

import (
	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-sketch/internal/config"
	"github.com/ankek/terraform-provider-sketch/internal/materialize"
	"github.com/ankek/terraform-provider-sketch/internal/session"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
)

// NewFromConfig wires a renderer backed by headless Chromium
func NewFromConfig(cfg *config.Config, logger hclog.Logger) *Renderer {
	return NewWithLauncher(cfg, surface.NewRodLauncher(surface.RodOptions{
		Bin:       cfg.Browser.Bin,
		Headless:  cfg.Browser.Headless,
		NoSandbox: cfg.Browser.NoSandbox,
		Logger:    logger,
	}), logger)
}

// NewWithLauncher wires a renderer whose surfaces come from l
func NewWithLauncher(cfg *config.Config, l surface.Launcher, logger hclog.Logger) *Renderer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	opts := session.Options{
		Origin:       cfg.Library.Origin,
		ModuleURL:    cfg.Library.ModuleURL,
		FontSettle:   cfg.Library.FontSettle,
		ProbeTimeout: cfg.Render.ProbeTimeout,
		Logger:       logger,
	}
	if cfg.Library.Preflight {
		opts.Preflight = session.NewURLCheck(cfg.Library.ModuleURL, logger)
	}

	return New(session.New(l, opts), Settings{
		Output:         materialize.Target{Dir: cfg.Output.Dir, Prefix: cfg.Output.Prefix},
		VisibleTimeout: cfg.Render.VisibleTimeout,
		Logger:         logger,
	})
}

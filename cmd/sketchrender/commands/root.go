package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-sketch/internal/config"
	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

// Build information, set via -ldflags
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg    *config.Config
	logger hclog.Logger
)

// newRenderer builds the renderer behind render and serve
var newRenderer = func(cfg *config.Config, logger hclog.Logger) interfaces.DiagramRenderer {
	return renderer.NewFromConfig(cfg, logger)
}

// paths checks the files commands read and write
var paths interfaces.PathValidator = toolkit.PathValidator{}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "sketchrender",
	Short: "Render hand-drawn Excalidraw diagrams to PNG or SVG",
	Long: `sketchrender turns a JSON array of Excalidraw elements into a PNG or SVG
file using the Excalidraw library in headless Chromium. It can also run as an
MCP server exposing the same rendering as tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, envFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		logger = cfg.Log.NewLogger("sketchrender", cmd.ErrOrStderr())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		failColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("HCL settings file (default: SKETCH_CONFIG env var or %s)", config.DefaultPath))
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load SKETCH_* variables from this .env file first")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

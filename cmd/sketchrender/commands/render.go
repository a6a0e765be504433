package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

var (
	renderOutput string
	renderFormat string
	renderScale  float64
)

var renderCmd = &cobra.Command{
	Use:   "render [elements.json]",
	Short: "Render an elements JSON file to PNG or SVG",
	Long: `The render command reads a JSON array of Excalidraw elements from a file,
or from stdin when the path is omitted or "-", and writes the rendered diagram.
Run "sketchrender reference" for the element format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		elements, err := readElements(cmd, args)
		if err != nil {
			return err
		}

		r := newRenderer(cfg, logger)
		defer r.Shutdown(context.Background())

		format := renderFormat
		if format == "" {
			format = cfg.Render.Format
		}
		scale := renderScale
		if scale == 0 {
			scale = cfg.Render.Scale
		}

		gen := toolkit.NewDiagramGenerator(r)
		gen.Logger = logger
		gen.Paths = paths
		res := toolkit.RunTool(cmd.Context(), gen, interfaces.DiagramConfig{
			Elements:   elements,
			OutputPath: renderOutput,
			Format:     format,
			Scale:      scale,
		})
		if res.IsError {
			failColor.Fprintln(cmd.ErrOrStderr(), res.Text)
			return errors.New("render failed")
		}

		out := res.Generated
		okColor.Fprintln(cmd.OutOrStdout(), res.Text)
		dimColor.Fprintf(cmd.OutOrStdout(), "%s %dx%d, %d bytes\n", out.Format, out.Width, out.Height, out.Bytes)
		return nil
	},
}

func readElements(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read elements from stdin: %w", err)
		}
		return string(data), nil
	}

	if err := paths.ValidateInputPath(args[0], false); err != nil {
		return "", fmt.Errorf("invalid elements file: %w", err)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read elements file: %w", err)
	}
	return string(data), nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: a unique file in the output directory)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: png or svg (default from config, png)")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 0, "Pixel multiplier for PNG output with a camera viewport (default from config, 2)")
	AddCommand(renderCmd)
}

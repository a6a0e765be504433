package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-sketch/internal/artifact"
	"github.com/ankek/terraform-provider-sketch/internal/materialize"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

var (
	convertOutput string
	convertScale  float64
)

var convertCmd = &cobra.Command{
	Use:   "convert <diagram.svg>",
	Short: "Rasterize a rendered SVG to PNG without a browser",
	Long: `The convert command rasterizes an SVG produced by "render --format svg" to
PNG in-process. Hand-drawn fonts are not embedded in the SVG, so text renders
without them; use "render" for faithful output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		if err := paths.ValidateInputPath(in, false); err != nil {
			return fmt.Errorf("invalid input path: %w", err)
		}

		out := convertOutput
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
		}
		if err := paths.ValidateOutputPath(out); err != nil {
			return fmt.Errorf("invalid output path: %w", err)
		}
		scale := convertScale
		if scale == 0 {
			scale = 1
		}
		if err := validation.ValidateScale(scale); err != nil {
			return err
		}

		svg, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", in, err)
		}
		data, err := artifact.Rasterize(svg, scale)
		if err != nil {
			return err
		}

		path, err := materialize.Resolve(out, "png")
		if err != nil {
			return err
		}
		if err := materialize.Write(path, data); err != nil {
			return err
		}

		info, err := artifact.InspectBytes(data)
		if err != nil {
			return err
		}
		okColor.Fprintf(cmd.OutOrStdout(), "PNG saved to: %s\n", path)
		dimColor.Fprintf(cmd.OutOrStdout(), "png %dx%d, %d bytes\n", info.Width, info.Height, info.Bytes)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output PNG (default: input path with a .png extension)")
	convertCmd.Flags().Float64Var(&convertScale, "scale", 1, "Pixel multiplier")
	AddCommand(convertCmd)
}

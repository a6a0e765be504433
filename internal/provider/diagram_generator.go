package provider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// diagramModel is the attribute set shared by the diagram resource and
// data source
type diagramModel struct {
	ID         types.String  `tfsdk:"id"`
	Elements   types.String  `tfsdk:"elements"`
	OutputPath types.String  `tfsdk:"output_path"`
	Format     types.String  `tfsdk:"format"`
	Scale      types.Float64 `tfsdk:"scale"`
	OutputFile types.String  `tfsdk:"output_file"`
	Width      types.Int64   `tfsdk:"width"`
	Height     types.Int64   `tfsdk:"height"`
	Bytes      types.Int64   `tfsdk:"bytes"`
}

func (m *diagramModel) config() interfaces.DiagramConfig {
	return interfaces.DiagramConfig{
		Elements:   m.Elements.ValueString(),
		OutputPath: m.OutputPath.ValueString(),
		Format:     m.Format.ValueString(),
		Scale:      m.Scale.ValueFloat64(),
	}
}

// generate renders the model and records the result in its computed
// attributes
func (m *diagramModel) generate(ctx context.Context, g interfaces.DiagramGenerator) diag.Diagnostics {
	var diags diag.Diagnostics

	if g == nil {
		diags.AddError("Unconfigured provider", "The sketch provider must be configured before diagrams can be rendered.")
		return diags
	}

	cfg := m.config()
	tflog.Debug(ctx, "rendering diagram", map[string]interface{}{
		"format":      cfg.Format,
		"output_path": cfg.OutputPath,
		"scale":       cfg.Scale,
	})

	result, err := g.Generate(ctx, cfg)
	if err != nil {
		diags.AddError("Failed to generate diagram", err.Error())
		return diags
	}

	tflog.Info(ctx, "diagram rendered", map[string]interface{}{
		"output_file": result.OutputPath,
		"width":       result.Width,
		"height":      result.Height,
	})

	m.Format = types.StringValue(result.Format)
	m.OutputFile = types.StringValue(result.OutputPath)
	m.Width = types.Int64Value(result.Width)
	m.Height = types.Int64Value(result.Height)
	m.Bytes = types.Int64Value(result.Bytes)
	m.ID = types.StringValue(diagramID(cfg))
	return diags
}

// diagramID is derived from the render inputs so that identical
// configurations share an identifier
func diagramID(cfg interfaces.DiagramConfig) string {
	format := cfg.Format
	if format == "" {
		format = renderer.FormatPNG
	}
	hash := sha256.Sum256([]byte(cfg.Elements + "\x00" + format + "\x00" +
		strconv.FormatFloat(cfg.Scale, 'g', -1, 64) + "\x00" + cfg.OutputPath))
	return fmt.Sprintf("%x", hash[:8])
}

// generatorFrom extracts the generator handed out by the provider
func generatorFrom(providerData any) (interfaces.DiagramGenerator, diag.Diagnostics) {
	var diags diag.Diagnostics

	// Prevent panic if the provider has not been configured.
	if providerData == nil {
		return nil, diags
	}

	g, ok := providerData.(interfaces.DiagramGenerator)
	if !ok {
		diags.AddError(
			"Unexpected Configure Type",
			fmt.Sprintf("Expected interfaces.DiagramGenerator, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return nil, diags
	}
	return g, diags
}

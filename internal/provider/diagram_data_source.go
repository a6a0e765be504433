package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &DiagramDataSource{}
var _ datasource.DataSourceWithConfigure = &DiagramDataSource{}

// DiagramDataSource renders a diagram on every read.
type DiagramDataSource struct {
	generator interfaces.DiagramGenerator
}

func NewDiagramDataSource() datasource.DataSource {
	return &DiagramDataSource{}
}

func (d *DiagramDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_diagram"
}

func (d *DiagramDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders a hand-drawn Excalidraw diagram from element JSON. Use the `sketch_reference` data source for the element format.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Identifier derived from the render inputs",
			},
			"elements": schema.StringAttribute{
				MarkdownDescription: toolkit.ElementsDescription,
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(2),
				},
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Path where the diagram will be saved. If omitted, a uniquely named file is created in the provider's output directory.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.OneOf(validation.Formats...),
				},
			},
			"scale": schema.Float64Attribute{
				MarkdownDescription: toolkit.ScaleDescription,
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.Between(0, validation.MaxScale),
				},
			},
			"output_file": schema.StringAttribute{
				MarkdownDescription: "Absolute path of the written file.",
				Computed:            true,
			},
			"width": schema.Int64Attribute{
				MarkdownDescription: "Width of the written diagram.",
				Computed:            true,
			},
			"height": schema.Int64Attribute{
				MarkdownDescription: "Height of the written diagram.",
				Computed:            true,
			},
			"bytes": schema.Int64Attribute{
				MarkdownDescription: "Size of the written file in bytes.",
				Computed:            true,
			},
		},
	}
}

func (d *DiagramDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	g, diags := generatorFrom(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if g != nil {
		d.generator = g
	}
}

func (d *DiagramDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data diagramModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(data.generate(ctx, d.generator)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

package provider

import (
	"context"
	"os"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringdefault"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/artifact"
	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &DiagramResource{}
var _ resource.ResourceWithConfigure = &DiagramResource{}
var _ resource.ResourceWithImportState = &DiagramResource{}

func NewDiagramResource() resource.Resource {
	return &DiagramResource{}
}

// DiagramResource defines the resource implementation.
type DiagramResource struct {
	generator interfaces.DiagramGenerator
}

func (r *DiagramResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_diagram"
}

func (r *DiagramResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders a hand-drawn Excalidraw diagram from element JSON and manages the written file.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Identifier derived from the render inputs",
			},
			"elements": schema.StringAttribute{
				MarkdownDescription: toolkit.ElementsDescription,
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(2),
				},
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Path where the diagram will be saved. If omitted, a uniquely named file is created in the provider's output directory.",
				Optional:            true,
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Computed:            true,
				Default:             stringdefault.StaticString(renderer.FormatPNG),
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

func (r *DiagramResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	g, diags := generatorFrom(req.ProviderData)
	resp.Diagnostics.Append(diags...)
	if g != nil {
		r.generator = g
	}
}

func (r *DiagramResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data diagramModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if data.Elements.IsNull() {
		resp.Diagnostics.AddAttributeError(path.Root("elements"), "Missing elements", "elements is required to render a diagram")
		return
	}

	resp.Diagnostics.Append(data.generate(ctx, r.generator)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *DiagramResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data diagramModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Check if output file still exists
	file := data.OutputFile.ValueString()
	if _, err := os.Stat(file); os.IsNotExist(err) {
		tflog.Info(ctx, "diagram file is gone, removing from state", map[string]interface{}{"output_file": file})
		resp.State.RemoveResource(ctx)
		return
	}

	info, err := artifact.Inspect(file)
	if err != nil {
		resp.Diagnostics.AddError("Failed to read diagram", err.Error())
		return
	}
	data.Format = types.StringValue(info.Format)
	data.Width = types.Int64Value(int64(info.Width))
	data.Height = types.Int64Value(int64(info.Height))
	data.Bytes = types.Int64Value(info.Bytes)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *DiagramResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	// Re-render the diagram with updated configuration
	r.Create(ctx, resource.CreateRequest{Plan: req.Plan}, (*resource.CreateResponse)(resp))
}

func (r *DiagramResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data diagramModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// The generated file is left in place
	tflog.Debug(ctx, "diagram removed from state", map[string]interface{}{"output_file": data.OutputFile.ValueString()})
}

// ImportState adopts an existing diagram file; the import ID is its path
func (r *DiagramResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("output_file"), req, resp)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), req.ID)...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("output_path"), req.ID)...)
}

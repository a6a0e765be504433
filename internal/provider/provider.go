// Package provider implements the Terraform provider for hand-drawn
// diagram rendering. It provides a resource and a data source that render
// an elements JSON scene to a file, and a data source with the element
// format reference.
package provider

import (
	"context"
	"sync"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/config"
	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

// Ensure SketchProvider satisfies various provider interfaces.
var _ provider.Provider = &SketchProvider{}

// renderers built by the providers of this process, released by Shutdown
var (
	renderersMu sync.Mutex
	renderers   []interfaces.DiagramRenderer
)

// Shutdown releases the browser of every renderer configured in this
// process. It is safe to call more than once.
func Shutdown(ctx context.Context) {
	renderersMu.Lock()
	active := renderers
	renderers = nil
	renderersMu.Unlock()

	for _, r := range active {
		r.Shutdown(ctx)
	}
}

// SketchProvider defines the provider implementation.
type SketchProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string

	// newRenderer builds the renderer on first Configure
	newRenderer func(cfg *config.Config) interfaces.DiagramRenderer

	once      sync.Once
	generator *toolkit.DiagramGenerator
}

// SketchProviderModel describes the provider data model.
type SketchProviderModel struct {
	ConfigFile types.String `tfsdk:"config_file"`
	BrowserBin types.String `tfsdk:"browser_bin"`
	NoSandbox  types.Bool   `tfsdk:"no_sandbox"`
	LibraryURL types.String `tfsdk:"library_url"`
	OutputDir  types.String `tfsdk:"output_dir"`
}

func (p *SketchProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "sketch"
	resp.Version = p.version
}

func (p *SketchProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The Sketch provider renders hand-drawn Excalidraw diagrams described as element JSON to PNG or SVG files using headless Chromium.",
		Attributes: map[string]schema.Attribute{
			"config_file": schema.StringAttribute{
				Description: "Path to an HCL settings file. Defaults to ~/.config/sketchrender/config.hcl. Can also be set via SKETCH_CONFIG environment variable.",
				Optional:    true,
			},
			"browser_bin": schema.StringAttribute{
				Description: "Chromium executable. If omitted, a browser is located or downloaded automatically. Can also be set via SKETCH_BROWSER_BIN environment variable.",
				Optional:    true,
			},
			"no_sandbox": schema.BoolAttribute{
				Description: "Disable the Chromium sandbox, required in some containers.",
				Optional:    true,
			},
			"library_url": schema.StringAttribute{
				Description: "ES module URL of the Excalidraw library loaded into the page.",
				Optional:    true,
			},
			"output_dir": schema.StringAttribute{
				Description: "Directory for generated files when output_path is omitted. Defaults to the system temp directory.",
				Optional:    true,
			},
		},
	}
}

func (p *SketchProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data SketchProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	cfg, err := config.Load(data.ConfigFile.ValueString(), "")
	if err != nil {
		resp.Diagnostics.AddError("Invalid sketch configuration", err.Error())
		return
	}
	if v := data.BrowserBin.ValueString(); v != "" {
		cfg.Browser.Bin = v
	}
	if !data.NoSandbox.IsNull() {
		cfg.Browser.NoSandbox = data.NoSandbox.ValueBool()
	}
	if v := data.LibraryURL.ValueString(); v != "" {
		cfg.Library.ModuleURL = v
	}
	if v := data.OutputDir.ValueString(); v != "" {
		cfg.Output.Dir = v
	}

	// One renderer per provider process: the browser is reused across
	// every resource and data source
	p.once.Do(func() {
		tflog.Debug(ctx, "configuring sketch renderer", map[string]interface{}{
			"library_url": cfg.Library.ModuleURL,
			"browser_bin": cfg.Browser.Bin,
		})
		r := p.newRenderer(cfg)
		renderersMu.Lock()
		renderers = append(renderers, r)
		renderersMu.Unlock()

		p.generator = toolkit.NewDiagramGenerator(r)
		p.generator.Logger = cfg.Log.NewLogger("sketch", nil)
	})

	// Make the generator available to resources and data sources
	resp.DataSourceData = p.generator
	resp.ResourceData = p.generator
}

func (p *SketchProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewDiagramResource,
	}
}

func (p *SketchProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewDiagramDataSource,
		NewReferenceDataSource,
	}
}

func defaultRenderer(cfg *config.Config) interfaces.DiagramRenderer {
	logger := cfg.Log.NewLogger("sketch", nil)
	return renderer.NewFromConfig(cfg, logger)
}

func New(version string) func() provider.Provider {
	return NewWithRenderer(version, defaultRenderer)
}

// NewWithRenderer is New with a custom renderer factory
func NewWithRenderer(version string, factory func(cfg *config.Config) interfaces.DiagramRenderer) func() provider.Provider {
	return func() provider.Provider {
		return &SketchProvider{
			version:     version,
			newRenderer: factory,
		}
	}
}

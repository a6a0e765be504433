package provider

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

var _ datasource.DataSource = &ReferenceDataSource{}

// ReferenceDataSource exposes the element format reference
type ReferenceDataSource struct{}

func NewReferenceDataSource() datasource.DataSource {
	return &ReferenceDataSource{}
}

// ReferenceDataSourceModel describes the data source data model.
type ReferenceDataSourceModel struct {
	ID      types.String `tfsdk:"id"`
	Content types.String `tfsdk:"content"`
}

func (d *ReferenceDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_reference"
}

func (d *ReferenceDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: toolkit.ReferenceToolDescription,
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
			},
			"content": schema.StringAttribute{
				MarkdownDescription: "Markdown reference of the element format, color palettes and examples.",
				Computed:            true,
			},
		},
	}
}

func (d *ReferenceDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	content := toolkit.Reference()
	hash := sha256.Sum256([]byte(content))

	data := ReferenceDataSourceModel{
		ID:      types.StringValue(fmt.Sprintf("%x", hash[:8])),
		Content: types.StringValue(content),
	}
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

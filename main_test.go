package main

import (
	"context"
	"testing"

	fwprovider "github.com/hashicorp/terraform-plugin-framework/provider"

	"github.com/ankek/terraform-provider-sketch/internal/provider"
)

func TestServedProvider(t *testing.T) {
	resp := &fwprovider.MetadataResponse{}
	provider.New(version)().Metadata(context.Background(), fwprovider.MetadataRequest{}, resp)

	if resp.TypeName != "sketch" {
		t.Errorf("TypeName = %q, want sketch", resp.TypeName)
	}
	if resp.Version != version {
		t.Errorf("Version = %q, want %q", resp.Version, version)
	}
}

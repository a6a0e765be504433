package toolkit

import (
	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

// PathValidator implements interfaces.PathValidator with package validation
type PathValidator struct{}

var _ interfaces.PathValidator = PathValidator{}

func (PathValidator) ValidateOutputPath(path string) error {
	return validation.ValidateOutputPath(path)
}

func (PathValidator) ValidateInputPath(path string, mustBeDir bool) error {
	return validation.ValidateInputPath(path, mustBeDir)
}

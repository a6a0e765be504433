package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNotArray is returned for elements JSON whose top level is not an array
var ErrNotArray = errors.New("elements must be a JSON array")

// InvalidJSONError reports elements that are not valid JSON
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON in elements: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// ValidateElementsJSON checks that elements is syntactically valid JSON
// with an array at the top level. Element contents are checked later.
func ValidateElementsJSON(elements string) error {
	var v any
	if err := json.Unmarshal([]byte(elements), &v); err != nil {
		return &InvalidJSONError{Err: err}
	}
	if _, ok := v.([]any); !ok {
		return ErrNotArray
	}
	return nil
}

// Formats lists the supported output formats, default first
var Formats = []string{"png", "svg"}

// ValidateFormat accepts an empty format or one of Formats, case-insensitively
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	f := strings.ToLower(format)
	for _, ok := range Formats {
		if f == ok {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Formats, ", "))
}

// MaxScale bounds the raster scale factor
const MaxScale = 8.0

// ValidateScale accepts 0 (the default) or a finite factor in (0, MaxScale]
func ValidateScale(scale float64) error {
	if scale == 0 {
		return nil
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 || scale > MaxScale {
		return fmt.Errorf("scale must be between 0 and %g, got %g", MaxScale, scale)
	}
	return nil
}

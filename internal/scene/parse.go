package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ankek/terraform-provider-sketch/internal/renderr"
)

// Parse decodes an elements JSON string. The top level must be an array and
// every entry an object whose "type" belongs to the supported set. Element
// order is preserved: it is the z-order of the scene.
func Parse(elementsJSON string) ([]Element, error) {
	data := bytes.TrimSpace([]byte(elementsJSON))

	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, renderr.WrapInput(err, "invalid JSON in elements")
	}
	if len(data) == 0 || data[0] != '[' {
		return nil, renderr.Input("elements must be a JSON array")
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, renderr.WrapInput(err, "elements must be a JSON array")
	}

	elements := make([]Element, 0, len(raws))
	for i, raw := range raws {
		var el Element
		if err := json.Unmarshal(raw, &el); err != nil {
			return nil, renderr.WrapInput(err, elementRef(i, ""))
		}
		if el.Type == "" {
			return nil, renderr.Input("%s: missing type", elementRef(i, el.ID))
		}
		if !el.Type.Valid() {
			return nil, renderr.Input("%s: unsupported type %q", elementRef(i, el.ID), el.Type)
		}
		elements = append(elements, el)
	}

	return elements, nil
}

// Split partitions a scene into its drawable elements, in their original
// order, and the camera directive. When several directives are present the
// last one wins; nil means the scene carries none. A scene with no drawable
// element is an InputError.
func Split(elements []Element) ([]Element, *Camera, error) {
	var camera *Camera
	draw := make([]Element, 0, len(elements))

	for i := range elements {
		el := &elements[i]
		if el.Type.IsDirective() {
			c := el.Camera()
			camera = &c
			continue
		}
		draw = append(draw, *el)
	}

	if len(draw) == 0 {
		return nil, nil, renderr.Input("no drawable elements provided")
	}

	return draw, camera, nil
}

func elementRef(index int, id string) string {
	if id != "" {
		return fmt.Sprintf("element %d (%s)", index, id)
	}
	return fmt.Sprintf("element %d", index)
}

package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type rawField = json.RawMessage

// UnmarshalJSON decodes an element object, keeping every field it received
func (e *Element) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}

	var typ string
	if err := take(m, "type", &typ); err != nil {
		return err
	}
	e.Type = Kind(typ)

	if err := take(m, "id", &e.ID); err != nil {
		return err
	}
	for key, dst := range map[string]**float64{
		"x":      &e.X,
		"y":      &e.Y,
		"width":  &e.Width,
		"height": &e.Height,
	} {
		if err := take(m, key, dst); err != nil {
			return err
		}
	}
	if err := take(m, "points", &e.Points); err != nil {
		return err
	}
	if err := take(m, "label", &e.Label); err != nil {
		return err
	}
	if err := take(m, "startBinding", &e.StartBinding); err != nil {
		return err
	}
	if err := take(m, "endBinding", &e.EndBinding); err != nil {
		return err
	}
	if err := e.Style.decode(m); err != nil {
		return err
	}

	e.fields = m
	return nil
}

// MarshalJSON writes the element back with decoded fields taking precedence
// over the fields it was decoded from
func (e Element) MarshalJSON() ([]byte, error) {
	out := cloneFields(e.fields)

	putString(out, "type", string(e.Type))
	putString(out, "id", e.ID)
	putValue(out, "x", e.X, e.X == nil)
	putValue(out, "y", e.Y, e.Y == nil)
	putValue(out, "width", e.Width, e.Width == nil)
	putValue(out, "height", e.Height, e.Height == nil)
	putValue(out, "points", e.Points, e.Points == nil)
	putValue(out, "label", e.Label, e.Label == nil)
	putValue(out, "startBinding", e.StartBinding, e.StartBinding == nil)
	putValue(out, "endBinding", e.EndBinding, e.EndBinding == nil)
	e.Style.encode(out)

	return json.Marshal(out)
}

func (s *Style) decode(m map[string]rawField) error {
	for key, dst := range map[string]*string{
		"strokeColor":     &s.StrokeColor,
		"backgroundColor": &s.BackgroundColor,
		"fillStyle":       &s.FillStyle,
		"strokeStyle":     &s.StrokeStyle,
	} {
		if err := take(m, key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]**float64{
		"strokeWidth": &s.StrokeWidth,
		"roughness":   &s.Roughness,
		"opacity":     &s.Opacity,
	} {
		if err := take(m, key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (s Style) encode(out map[string]rawField) {
	putString(out, "strokeColor", s.StrokeColor)
	putString(out, "backgroundColor", s.BackgroundColor)
	putString(out, "fillStyle", s.FillStyle)
	putString(out, "strokeStyle", s.StrokeStyle)
	putValue(out, "strokeWidth", s.StrokeWidth, s.StrokeWidth == nil)
	putValue(out, "roughness", s.Roughness, s.Roughness == nil)
	putValue(out, "opacity", s.Opacity, s.Opacity == nil)
}

// UnmarshalJSON decodes a label object, keeping unknown fields
func (l *Label) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if err := take(m, "text", &l.Text); err != nil {
		return err
	}
	if err := take(m, "fontSize", &l.FontSize); err != nil {
		return err
	}
	if err := take(m, "textAlign", &l.TextAlign); err != nil {
		return err
	}
	if err := take(m, "verticalAlign", &l.VerticalAlign); err != nil {
		return err
	}
	l.fields = m
	return nil
}

// MarshalJSON writes the label back including unknown fields
func (l Label) MarshalJSON() ([]byte, error) {
	out := cloneFields(l.fields)
	putString(out, "text", l.Text)
	putValue(out, "fontSize", l.FontSize, l.FontSize == nil)
	putString(out, "textAlign", l.TextAlign)
	putString(out, "verticalAlign", l.VerticalAlign)
	return json.Marshal(out)
}

// UnmarshalJSON decodes a binding object, keeping unknown fields
func (b *Binding) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("binding: %w", err)
	}
	if err := take(m, "elementId", &b.ElementID); err != nil {
		return err
	}
	if err := take(m, "fixedPoint", &b.FixedPoint); err != nil {
		return err
	}
	b.fields = m
	return nil
}

// MarshalJSON writes the binding back including unknown fields
func (b Binding) MarshalJSON() ([]byte, error) {
	out := cloneFields(b.fields)
	putString(out, "elementId", b.ElementID)
	putValue(out, "fixedPoint", b.FixedPoint, b.FixedPoint == nil)
	return json.Marshal(out)
}

// UnmarshalJSON decodes a [dx, dy, ...] tuple
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(coords) < 2 {
		return fmt.Errorf("point must have two coordinates, got %d", len(coords))
	}
	p.DX, p.DY = coords[0], coords[1]
	p.rest = coords[2:]
	return nil
}

// MarshalJSON writes the point as [dx, dy] followed by any further
// coordinates it was decoded with
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(append([]float64{p.DX, p.DY}, p.rest...))
}

func decodeObject(data []byte) (map[string]rawField, error) {
	var m map[string]rawField
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("expected a JSON object")
	}
	return m, nil
}

// take decodes m[key] into dst when the field is present and not null
func take(m map[string]rawField, key string, dst any) error {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

func isNull(raw rawField) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isBlank(raw rawField) bool {
	return isNull(raw) || bytes.Equal(bytes.TrimSpace(raw), []byte(`""`))
}

func cloneFields(fields map[string]rawField) map[string]rawField {
	out := make(map[string]rawField, len(fields)+8)
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func putString(out map[string]rawField, key, v string) {
	putValue(out, key, v, v == "")
}

// putValue sets out[key] to v. When absent is true a received value is
// removed, while a received null or "" is left as the caller sent it.
func putValue(out map[string]rawField, key string, v any, absent bool) {
	if absent {
		if raw, ok := out[key]; !ok || !isBlank(raw) {
			delete(out, key)
		}
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	out[key] = b
}

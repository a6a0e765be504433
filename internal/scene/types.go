// Package scene models the elements of a hand-drawn diagram scene as they
// arrive in the elements JSON: drawable shapes plus the camera directive that
// selects the visible region.
package scene

// Kind is the element discriminant carried in the "type" field
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindDiamond   Kind = "diamond"
	KindArrow     Kind = "arrow"
	KindLine      Kind = "line"
	KindFreedraw  Kind = "freedraw"
	KindText      Kind = "text"

	// KindCamera and KindViewport are directives: they select the output
	// frame and are never drawn.
	KindCamera   Kind = "cameraUpdate"
	KindViewport Kind = "viewportUpdate"
)

var knownKinds = map[Kind]bool{
	KindRectangle: true,
	KindEllipse:   true,
	KindDiamond:   true,
	KindArrow:     true,
	KindLine:      true,
	KindFreedraw:  true,
	KindText:      true,
	KindCamera:    true,
	KindViewport:  true,
}

// Valid reports whether k belongs to the supported set
func (k Kind) Valid() bool {
	return knownKinds[k]
}

// IsDirective reports whether k is a camera/viewport directive
func (k Kind) IsDirective() bool {
	return k == KindCamera || k == KindViewport
}

// Point is a (dx, dy) offset relative to the owning element's anchor.
// Coordinates past the second, such as freedraw pressure, are kept as
// received.
type Point struct {
	DX float64
	DY float64

	rest []float64
}

// Style holds the optional stroke/fill attributes of an element
type Style struct {
	StrokeColor     string
	BackgroundColor string
	FillStyle       string
	StrokeStyle     string
	StrokeWidth     *float64
	Roughness       *float64
	Opacity         *float64
}

// Label is text embedded in a shape or arrow
type Label struct {
	Text          string
	FontSize      *float64
	TextAlign     string
	VerticalAlign string

	fields map[string]rawField
}

// Has reports whether the label was decoded with the given field, even an
// empty or null one
func (l *Label) Has(key string) bool {
	_, ok := l.fields[key]
	return ok
}

// Binding references another element of the scene by id
type Binding struct {
	ElementID  string
	FixedPoint []float64

	fields map[string]rawField
}

// Camera is the resolved camera directive: the top-left of the visible
// scene region and its size. Missing values decode as zero; plausibility
// is the caller's contract.
type Camera struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Element is one unit of a scene. The common geometry and the fields the
// renderer reads are decoded; every other field is preserved as received and
// written back unchanged by MarshalJSON.
type Element struct {
	Type   Kind
	ID     string
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Points []Point
	Label  *Label
	Style  Style

	StartBinding *Binding
	EndBinding   *Binding

	fields map[string]rawField
}

// Camera returns the directive carried by a cameraUpdate/viewportUpdate
// element. Only meaningful when e.Type.IsDirective().
func (e *Element) Camera() Camera {
	return Camera{
		X:      deref(e.X),
		Y:      deref(e.Y),
		Width:  deref(e.Width),
		Height: deref(e.Height),
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

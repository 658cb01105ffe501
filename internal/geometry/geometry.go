// Package geometry validates and applies placement changes for shelves on a
// warehouse floor plan: drag, resize and rotate, with a minimum footprint and
// normalized rotation angles.
package geometry

import "math"

const (
	// MinDimension is the smallest allowed shelf width or depth. Transforms
	// that would shrink below it are clamped, not rejected.
	MinDimension = 30

	// scaleEpsilon separates a real resize from the ~1.0 scale factors a
	// scenegraph reports after a pure rotate or drag.
	scaleEpsilon = 0.01

	DefaultWidth = 100
	DefaultDepth = 50
	DefaultColor = "#3B82F6"

	// New shelves are staggered from this anchor so they never stack exactly
	basePosition  = 100
	staggerOffset = 20
)

// Transform carries the committed end state of an interactive gesture.
// Width and Depth are nil for pure move/rotate gestures, set for resizes.
type Transform struct {
	X        int
	Y        int
	Width    *int
	Depth    *int
	Rotation float64
}

// NormalizeRotation maps any angle into [0, 360)
func NormalizeRotation(degrees float64) float64 {
	normalized := math.Mod(degrees, 360)
	if normalized < 0 {
		normalized += 360
	}
	return normalized
}

// StepRotation returns the rotation after a discrete step, normalized.
// Steps are typically +90 or -90.
func StepRotation(current, delta float64) float64 {
	return NormalizeRotation(current + delta + 360)
}

// ClampDimension enforces the minimum footprint on a single dimension
func ClampDimension(value int) int {
	if value < MinDimension {
		return MinDimension
	}
	return value
}

// ScaledDimension converts a scenegraph scale factor back into an absolute
// dimension, rounded and clamped.
func ScaledDimension(original int, scale float64) int {
	return ClampDimension(int(math.Round(float64(original) * scale)))
}

// IsResizeScale reports whether a reported scale factor is a deliberate
// resize rather than floating-point noise from a rotate or drag.
func IsResizeScale(scale float64) bool {
	return math.Abs(scale-1) > scaleEpsilon
}

// TransformFromScale builds a Transform from raw scenegraph gesture output.
// Dimensions are only recomputed when the scale factors show a real resize;
// otherwise a rotate would silently corrupt width and depth through repeated
// multiply-and-round cycles.
func TransformFromScale(x, y, width, depth int, scaleX, scaleY, rotation float64) Transform {
	t := Transform{X: x, Y: y, Rotation: rotation}
	if IsResizeScale(scaleX) || IsResizeScale(scaleY) {
		w := ScaledDimension(width, scaleX)
		d := ScaledDimension(depth, scaleY)
		t.Width = &w
		t.Depth = &d
	}
	return t
}

// DefaultPlacement returns the anchor for the index-th shelf of a warehouse.
// Successive shelves are offset diagonally so each new one stays visible.
func DefaultPlacement(index int) (x, y int) {
	offset := basePosition + staggerOffset*index
	return offset, offset
}

// DefaultName labels shelves "Shelf A", "Shelf B", ... cycling after Z
func DefaultName(index int) string {
	return "Shelf " + string(rune('A'+index%26))
}

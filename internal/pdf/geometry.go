package pdf

import "math"

// Rotations is the fixed sequence a user cycles through, one step per rotate.
var Rotations = [4]int{0, 90, 180, 270}

// Point is a position in preview pixels, origin at the top-left of the
// rendered viewport. At scale 1 one pixel is one PDF point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether s cannot describe a measured box.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// NormalizeRotation folds deg into [0, 360).
func NormalizeRotation(deg int) int {
	r := deg % 360
	if r < 0 {
		r += 360
	}
	return r
}

// EffectiveRotation combines the rotation chosen on the preview with the
// rotation stored in the template page.
func EffectiveRotation(chosen, intrinsic int) int {
	return NormalizeRotation(chosen + intrinsic)
}

// Viewport returns the size of a page of the given unrotated dimensions as it
// is displayed at rotation.
func Viewport(width, height float64, rotation int) Size {
	switch NormalizeRotation(rotation) {
	case 90, 270:
		return Size{Width: height, Height: width}
	}
	return Size{Width: width, Height: height}
}

// MapPlacement converts a point picked on a preview rendered at rotation into
// the unrotated user space of a page that is width x height points.
//
// PDF user space has its origin bottom-left and is not affected by /Rotate, so
// the pick is counter-rotated back into that frame. For a rotation outside
// {0, 90, 180, 270} the point is returned unchanged together with an
// *UnhandledRotationError.
func MapPlacement(p Point, width, height float64, rotation int) (Point, error) {
	switch rotation {
	case 0:
		return Point{X: p.X, Y: height - p.Y}, nil
	case 90:
		return Point{X: p.Y, Y: p.X}, nil
	case 180:
		return Point{X: width - p.X, Y: p.Y}, nil
	case 270:
		return Point{X: width - p.Y, Y: height - p.X}, nil
	}
	return p, &UnhandledRotationError{Rotation: rotation}
}

// rotationMatrix returns the a b c d entries of a text matrix turning glyphs
// counter-clockwise by deg. Quarter turns are exact.
func rotationMatrix(deg int) (a, b, c, d float64) {
	switch NormalizeRotation(deg) {
	case 0:
		return 1, 0, 0, 1
	case 90:
		return 0, 1, -1, 0
	case 180:
		return -1, 0, 0, -1
	case 270:
		return 0, -1, 1, 0
	}
	rad := float64(deg) * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return cos, sin, -sin, cos
}

// centeredOrigin returns where a text run of the given extent must start so
// that, drawn rotated by deg, its box is centred on box.
func centeredOrigin(box Rect, textWidth, textHeight float64, deg int) Point {
	a, b, c, d := rotationMatrix(deg)
	cx, cy := textWidth/2, textHeight/2
	return Point{
		X: box.LLX + box.Width()/2 - (a*cx + c*cy),
		Y: box.LLY + box.Height()/2 - (b*cx + d*cy),
	}
}

// Rect is a page box in user space.
type Rect struct {
	LLX, LLY, URX, URY float64
}

func (r Rect) Width() float64  { return r.URX - r.LLX }
func (r Rect) Height() float64 { return r.URY - r.LLY }

package pdf

import "fmt"

// LoadError reports template bytes that could not be read as a PDF.
// Generation aborts and no document is returned.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load template: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingOverlayError reports a name page that was produced without a stamp
// because the placeholder had no measurable size.
type MissingOverlayError struct {
	Name string
}

func (e *MissingOverlayError) Error() string {
	return fmt.Sprintf("placeholder not measured, page for %q left unstamped", e.Name)
}

// UnhandledRotationError reports a rotation outside {0, 90, 180, 270}. The
// untransformed placement is used instead.
type UnhandledRotationError struct {
	Rotation int
}

func (e *UnhandledRotationError) Error() string {
	return fmt.Sprintf("unhandled rotation: %d", e.Rotation)
}

// UnencodableTextError reports text with characters outside WinAnsiEncoding.
// Those characters are drawn as '?'.
type UnencodableTextError struct {
	Text string
}

func (e *UnencodableTextError) Error() string {
	return fmt.Sprintf("%q has characters the standard fonts cannot show", e.Text)
}

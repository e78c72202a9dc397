package pdf

import "fmt"

// TemplateInfo describes page 1 of a template as the preview sees it at
// scale 1.
type TemplateInfo struct {
	Pages int `json:"pages"`
	// Width and Height are the unrotated media box size in points.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Rotation is the page's own /Rotate, normalised to [0, 360).
	Rotation int `json:"intrinsicRotation"`
}

// Inspect reads the geometry and intrinsic rotation of the first page of src.
func Inspect(src []byte) (*TemplateInfo, error) {
	ctx, err := readContext(src, newConfiguration())
	if err != nil {
		return nil, err
	}
	_, _, inh, err := ctx.PageDict(1, false)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("page 1: %w", err)}
	}
	box, err := mediaBox(inh)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return &TemplateInfo{
		Pages:    ctx.PageCount,
		Width:    box.Width(),
		Height:   box.Height(),
		Rotation: NormalizeRotation(inh.Rotate),
	}, nil
}

// Viewport is the size the first page is displayed at for the rotation
// chosen on top of the intrinsic one.
func (t *TemplateInfo) Viewport(chosen int) Size {
	return Viewport(t.Width, t.Height, EffectiveRotation(chosen, t.Rotation))
}

// PageRotations lists the effective /Rotate of every page of src.
func PageRotations(src []byte) ([]int, error) {
	ctx, err := readContext(src, newConfiguration())
	if err != nil {
		return nil, err
	}
	rotations := make([]int, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, _, inh, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		rotations = append(rotations, NormalizeRotation(inh.Rotate))
	}
	return rotations, nil
}

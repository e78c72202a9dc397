package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPlacement(t *testing.T) {
	tests := []struct {
		name     string
		rotation int
		want     Point
	}{
		{name: "upright", rotation: 0, want: Point{X: 50, Y: 700}},
		{name: "quarter turn", rotation: 90, want: Point{X: 100, Y: 50}},
		{name: "upside down", rotation: 180, want: Point{X: 550, Y: 100}},
		{name: "three quarter turn", rotation: 270, want: Point{X: 500, Y: 750}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapPlacement(Point{X: 50, Y: 100}, 600, 800, tt.rotation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapPlacementFormulas(t *testing.T) {
	samples := []struct{ x, y, w, h float64 }{
		{0, 0, 612, 792},
		{12.5, 300.25, 595.28, 841.89},
		{400, 20, 842, 595},
		{1, 1, 1, 1},
	}

	for _, s := range samples {
		p := Point{X: s.x, Y: s.y}

		got, err := MapPlacement(p, s.w, s.h, 0)
		require.NoError(t, err)
		assert.Equal(t, Point{X: s.x, Y: s.h - s.y}, got)

		got, err = MapPlacement(p, s.w, s.h, 90)
		require.NoError(t, err)
		assert.Equal(t, Point{X: s.y, Y: s.x}, got)

		got, err = MapPlacement(p, s.w, s.h, 180)
		require.NoError(t, err)
		assert.Equal(t, Point{X: s.w - s.x, Y: s.y}, got)

		got, err = MapPlacement(p, s.w, s.h, 270)
		require.NoError(t, err)
		assert.Equal(t, Point{X: s.w - s.y, Y: s.h - s.x}, got)
	}
}

func TestMapPlacementUnhandledRotation(t *testing.T) {
	p := Point{X: 50, Y: 100}
	for _, rotation := range []int{45, 360, -90} {
		got, err := MapPlacement(p, 600, 800, rotation)

		var rotErr *UnhandledRotationError
		require.True(t, errors.As(err, &rotErr), "rotation %d", rotation)
		assert.Equal(t, rotation, rotErr.Rotation)
		assert.Equal(t, p, got)
	}
}

func TestEffectiveRotation(t *testing.T) {
	assert.Equal(t, 0, EffectiveRotation(0, 0))
	assert.Equal(t, 180, EffectiveRotation(90, 90))
	assert.Equal(t, 0, EffectiveRotation(270, 90))
	assert.Equal(t, 90, EffectiveRotation(180, 270))
	assert.Equal(t, 270, EffectiveRotation(0, -90))
}

func TestViewport(t *testing.T) {
	assert.Equal(t, Size{Width: 600, Height: 800}, Viewport(600, 800, 0))
	assert.Equal(t, Size{Width: 800, Height: 600}, Viewport(600, 800, 90))
	assert.Equal(t, Size{Width: 600, Height: 800}, Viewport(600, 800, 180))
	assert.Equal(t, Size{Width: 800, Height: 600}, Viewport(600, 800, 270))
}

func TestCenteredOrigin(t *testing.T) {
	box := Rect{URX: 600, URY: 800}

	got := centeredOrigin(box, 100, 20, 0)
	assert.Equal(t, Point{X: 250, Y: 390}, got)

	// At 90 the run climbs the page, so it starts below the centre.
	got = centeredOrigin(box, 100, 20, 90)
	assert.InDelta(t, 310, got.X, 1e-9)
	assert.InDelta(t, 350, got.Y, 1e-9)

	got = centeredOrigin(box, 100, 20, 180)
	assert.InDelta(t, 350, got.X, 1e-9)
	assert.InDelta(t, 410, got.Y, 1e-9)
}

func TestPDFString(t *testing.T) {
	assert.Equal(t, "Alice", pdfString("Alice"))
	assert.Equal(t, `O\(Brien\) \\ co`, pdfString(`O(Brien) \ co`))
	assert.Equal(t, `Jos\351`, pdfString("José"))
	assert.Equal(t, "?", pdfString("漢"))
}

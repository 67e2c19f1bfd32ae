package texture

import (
	"image"
	"image/color"
)

// Checkerboard draws a size x size image of cells x cells alternating squares.
// It stands in for a brick wall texture when no image file is available.
//
// Parameters:
//   - size: edge length in pixels
//   - cells: squares per edge
//   - a, b: the two square colors
//
// Returns:
//   - *image.RGBA: the generated image
func Checkerboard(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

// Face draws a yellow smiley on a transparent background.
//
// Parameters:
//   - size: edge length in pixels
//
// Returns:
//   - *image.RGBA: the generated image
func Face(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)
	yellow := color.RGBA{R: 250, G: 210, B: 40, A: 255}
	dark := color.RGBA{R: 40, G: 30, B: 20, A: 255}

	inCircle := func(x, y, cx, cy, r float64) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= r*r
	}

	for py := range size {
		for px := range size {
			x, y := (float64(px)+0.5)/s, (float64(py)+0.5)/s
			switch {
			case !inCircle(x, y, 0.5, 0.5, 0.45):
				continue
			case inCircle(x, y, 0.35, 0.38, 0.06), inCircle(x, y, 0.65, 0.38, 0.06):
				img.SetRGBA(px, py, dark)
			case inCircle(x, y, 0.5, 0.5, 0.28) && !inCircle(x, y, 0.5, 0.5, 0.22) && y > 0.55:
				img.SetRGBA(px, py, dark)
			default:
				img.SetRGBA(px, py, yellow)
			}
		}
	}
	return img
}

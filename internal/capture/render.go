package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	boxLineWidth = 2
	labelPadding = 3
)

var (
	colorKnown   = color.RGBA{0, 200, 0, 255}
	colorUnknown = color.RGBA{220, 0, 0, 255}
	colorText    = color.RGBA{255, 255, 255, 255}
)

// Overlay is a face box with its caption.
type Overlay struct {
	Box   image.Rectangle
	Label Label
}

// Annotate returns a copy of frame with a box and caption drawn per overlay:
// green for a recognised person, red for Unknown.
func Annotate(frame image.Image, overlays []Overlay) *image.RGBA {
	bounds := frame.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, frame, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	for _, o := range overlays {
		c := colorUnknown
		if o.Label.Known {
			c = colorKnown
		}
		r := o.Box
		for w := 0; w < boxLineWidth; w++ {
			drawHLine(dst, r.Min.X, r.Max.X, r.Min.Y+w, c)
			drawHLine(dst, r.Min.X, r.Max.X, r.Max.Y-w, c)
			drawVLine(dst, r.Min.Y, r.Max.Y, r.Min.X+w, c)
			drawVLine(dst, r.Min.Y, r.Max.Y, r.Max.X-w, c)
		}

		if o.Label.Text == "" {
			continue
		}
		// Filled caption bar under the box, as wide as the text needs
		textWidth := font.MeasureString(face, o.Label.Text).Ceil()
		barHeight := face.Metrics().Height.Ceil() + 2*labelPadding
		bar := image.Rect(r.Min.X, r.Max.Y, r.Min.X+max(r.Dx(), textWidth+2*labelPadding), r.Max.Y+barHeight)
		draw.Draw(dst, bar.Intersect(bounds), image.NewUniform(c), image.Point{}, draw.Src)

		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(colorText),
			Face: face,
			Dot:  fixed.P(bar.Min.X+labelPadding, bar.Min.Y+labelPadding+face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(o.Label.Text)
	}
	return dst
}

// drawHLine draws a horizontal line on the image.
func drawHLine(dst *image.RGBA, x1, x2, y int, c color.RGBA) {
	bounds := dst.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			dst.SetRGBA(x, y, c)
		}
	}
}

// drawVLine draws a vertical line on the image.
func drawVLine(dst *image.RGBA, y1, y2, x int, c color.RGBA) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.SetRGBA(x, y, c)
		}
	}
}

// Preview writes annotated frames to a JPEG file for an external viewer.
// A nil *Preview discards frames.
type Preview struct {
	path string
}

// NewPreview returns nil when path is empty.
func NewPreview(path string) *Preview {
	if path == "" {
		return nil
	}
	return &Preview{path: path}
}

// Write replaces the preview file. The image is written to a temporary file
// first so a viewer never reads a partial JPEG.
func (p *Preview) Write(img image.Image) error {
	if p == nil {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".preview-*.jpg")
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: 80}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preview: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replace preview: %w", err)
	}
	return nil
}

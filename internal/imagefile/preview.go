package imagefile

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
)

// Thumbnail bounds in pixels. Terminals render two pixel rows per text row.
const (
	ThumbnailMaxWidth  = 32
	ThumbnailMaxHeight = 32
)

// Preview holds the image's dimensions plus a small downsampled pixel grid
// for the terminal.
type Preview struct {
	Width  int
	Height int
	Format string

	// Pixels is row-major; nil when the format cannot be decoded locally
	// (webp, heic). The upload is still allowed in that case.
	Pixels [][]color.RGBA
}

// Decoded reports whether a thumbnail is available
func (p *Preview) Decoded() bool {
	return p != nil && len(p.Pixels) > 0
}

// NewPreview derives a preview from raw image bytes. It never fails; an
// undecodable image yields a preview without pixels.
func NewPreview(data []byte) *Preview {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &Preview{}
	}

	preview := &Preview{Width: cfg.Width, Height: cfg.Height, Format: format}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return preview
	}
	preview.Pixels = sample(img, ThumbnailMaxWidth, ThumbnailMaxHeight)
	return preview
}

// sample downsizes img with nearest-neighbour sampling, keeping the aspect
// ratio within maxW x maxH.
func sample(img image.Image, maxW, maxH int) [][]color.RGBA {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	dstW, dstH := maxW, maxW*srcH/srcW
	if dstH > maxH {
		dstH = maxH
		dstW = maxH * srcW / srcH
	}
	dstW = clamp(dstW, 1, srcW)
	dstH = clamp(dstH, 1, srcH)

	rows := make([][]color.RGBA, dstH)
	for y := 0; y < dstH; y++ {
		row := make([]color.RGBA, dstW)
		sy := bounds.Min.Y + y*srcH/dstH
		for x := 0; x < dstW; x++ {
			sx := bounds.Min.X + x*srcW/dstW
			row[x] = color.RGBAModel.Convert(img.At(sx, sy)).(color.RGBA)
		}
		rows[y] = row
	}
	return rows
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package components

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/imagefile"
)

// luminance ramp for colorless terminals, darkest first
const ramp = " .:-=+*#%@"

// Thumbnail draws an image preview with half-block characters: each cell
// shows two vertically stacked pixels.
type Thumbnail struct {
	Preview *imagefile.Preview
	Plain   bool
}

// Render returns "" when the preview has no decoded pixels
func (t *Thumbnail) Render() string {
	if !t.Preview.Decoded() {
		return ""
	}
	pixels := t.Preview.Pixels

	var b strings.Builder
	for y := 0; y < len(pixels); y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		top := pixels[y]
		var bottom []color.RGBA
		if y+1 < len(pixels) {
			bottom = pixels[y+1]
		}
		for x, px := range top {
			if t.Plain {
				b.WriteByte(shade(px))
				continue
			}
			style := lipgloss.NewStyle().Foreground(hex(px))
			if bottom != nil {
				style = style.Background(hex(bottom[x]))
			}
			b.WriteString(style.Render("▀"))
		}
	}
	return b.String()
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

func shade(c color.RGBA) byte {
	// Rec. 601 luma
	l := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	return ramp[l*(len(ramp)-1)/255]
}

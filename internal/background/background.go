// Package background loads the overlay's backdrop and renders it as
// terminal rows.
package background

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"

	"github.com/typingthrower/overlay/internal/resource"
)

// DefaultName is the bundled background image.
const DefaultName = "BG2.png"

// Image is a loaded background: either a raster image or text art.
type Image struct {
	name string
	img  image.Image
	art  []string
}

// Load reads res/<name> through l. Names ending in .txt are text art;
// anything else is decoded as PNG, JPEG or GIF.
func Load(l resource.Loader, name string) (*Image, error) {
	data, err := resource.ReadAll(l, resource.Path(name))
	if err != nil {
		logrus.WithField("background", name).WithError(err).Error("couldn't read background")
		return nil, fmt.Errorf("background %s: %w", name, err)
	}
	if strings.EqualFold(path.Ext(name), ".txt") {
		text := strings.ReplaceAll(string(data), "\r\n", "\n")
		return &Image{name: name, art: strings.Split(strings.TrimRight(text, "\n"), "\n")}, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logrus.WithField("background", name).WithError(err).Error("couldn't decode background")
		return nil, fmt.Errorf("decode background %s: %w", name, err)
	}
	logrus.WithField("background", name).Debugf("decoded %s image %v", format, img.Bounds().Size())
	return &Image{name: name, img: img}, nil
}

// Name returns the resource name of the background.
func (b *Image) Name() string { return b.name }

// Size returns the natural size in cells: one column per pixel and one row
// per two pixels for images, the line count and widest line for text art.
func (b *Image) Size() (width, height int) {
	if b.img != nil {
		size := b.img.Bounds().Size()
		return size.X, (size.Y + 1) / 2
	}
	for _, line := range b.art {
		width = max(width, ansi.StringWidth(line))
	}
	return width, len(b.art)
}

// Render draws the background into a width x height cell area. The picture
// takes the smaller of its natural size and the area, is centred, and the
// rest is blank. Every returned row is exactly width cells wide.
func (b *Image) Render(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	var body []string
	if b.img != nil {
		body = b.renderImage(width, height)
	} else {
		body = b.renderArt(width, height)
	}

	bodyWidth := 0
	for _, row := range body {
		bodyWidth = max(bodyWidth, ansi.StringWidth(row))
	}
	left := (width - bodyWidth) / 2
	top := (height - len(body)) / 2

	rows := make([]string, height)
	blank := strings.Repeat(" ", width)
	for y := range rows {
		i := y - top
		if i < 0 || i >= len(body) {
			rows[y] = blank
			continue
		}
		row := body[i]
		pad := width - left - ansi.StringWidth(row)
		rows[y] = strings.Repeat(" ", left) + row + strings.Repeat(" ", max(pad, 0))
	}
	return rows
}

func (b *Image) renderArt(width, height int) []string {
	natW, natH := b.Size()
	w, h := min(natW, width), min(natH, height)
	skipX := (natW - w) / 2
	skipY := (natH - h) / 2

	out := make([]string, 0, h)
	for _, line := range b.art[skipY : skipY+h] {
		line = ansi.TruncateLeft(line, skipX, "")
		out = append(out, ansi.Truncate(line, w, ""))
	}
	return out
}

// renderImage scales the picture to fit, keeping its aspect ratio, and
// paints two pixels per cell with upper half blocks.
func (b *Image) renderImage(width, height int) []string {
	bounds := b.img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil
	}

	// Target size in pixels; a cell is one pixel wide and two tall.
	dstW, dstH := srcW, srcH
	if dstW > width || dstH > height*2 {
		scale := min(float64(width)/float64(srcW), float64(height*2)/float64(srcH))
		dstW = max(int(float64(srcW)*scale), 1)
		dstH = max(int(float64(srcH)*scale), 1)
	}

	sample := func(x, y int) color.Color {
		sx := bounds.Min.X + x*srcW/dstW
		sy := bounds.Min.Y + y*srcH/dstH
		return b.img.At(sx, sy)
	}

	rows := make([]string, 0, (dstH+1)/2)
	var sb strings.Builder
	for y := 0; y < dstH; y += 2 {
		sb.Reset()
		for x := 0; x < dstW; x++ {
			style := lipgloss.NewStyle().Foreground(hex(sample(x, y)))
			if y+1 < dstH {
				style = style.Background(hex(sample(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

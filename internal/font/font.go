// Package font loads scalable fonts from bundled resources and rasterises
// text into terminal rows.
package font

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/typingthrower/overlay/internal/resource"
)

// Sentinel errors returned by Provider.Font.
var (
	ErrResourceLoad = errors.New("font resource could not be read")
	ErrFontFormat   = errors.New("font format not recognised")
	ErrInvalidSize  = errors.New("font size must be positive")
)

const (
	// faceDPI makes one point equal one pixel.
	faceDPI = 72
	// inkThreshold is the alpha at which a pixel counts as painted.
	inkThreshold = 0x80
)

// Provider loads fonts by name through a resource loader and caches them.
type Provider struct {
	loader resource.Loader

	mu    sync.Mutex
	fonts map[string]*Font
}

// NewProvider returns a Provider reading from l.
func NewProvider(l resource.Loader) *Provider {
	return &Provider{loader: l, fonts: make(map[string]*Font)}
}

// Font returns the parsed font stored at res/<name>. Failures are logged and
// returned wrapping ErrResourceLoad or ErrFontFormat; the returned font is
// never nil when err is nil.
func (p *Provider) Font(name string) (*Font, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.fonts[name]; ok {
		return f, nil
	}

	log := logrus.WithField("font", name)
	data, err := resource.ReadAll(p.loader, resource.Path(name))
	if err != nil {
		log.WithError(err).Error("couldn't read font resource")
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, name, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		log.WithError(err).Error("couldn't parse font")
		return nil, fmt.Errorf("%w: %s: %w", ErrFontFormat, name, err)
	}
	log.Debugf("loaded font (%d bytes, %d glyphs)", len(data), parsed.NumGlyphs())

	f := &Font{name: name, sfnt: parsed}
	p.fonts[name] = f
	return f, nil
}

// Font is a parsed scalable font.
type Font struct {
	name string
	sfnt *opentype.Font
}

// Name returns the resource name the font was loaded from.
func (f *Font) Name() string { return f.name }

// Face returns a face of the font at size pixels.
func (f *Font) Face(size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     faceDPI,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %s@%v: %w", f.name, size, err)
	}
	return &Face{font: f, size: size, face: face}, nil
}

// Face is a font at a fixed size. Faces are safe for concurrent use.
type Face struct {
	font *Font
	size float64

	mu   sync.Mutex
	face xfont.Face
}

// Size returns the pixel size of the face.
func (f *Face) Size() float64 { return f.size }

// Font returns the font the face was derived from.
func (f *Face) Font() *Font { return f.font }

// Derive returns a new face of the same font scaled by scale.
func (f *Face) Derive(scale float64) (*Face, error) {
	return f.font.Face(f.size * scale)
}

// Close releases the face.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

// Render rasterises text and returns it as rows of half-block characters,
// each cell covering one pixel column and two pixel rows. Blank margins are
// trimmed; rows share the same width. Empty or blank text yields nil.
func (f *Face) Render(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	metrics := f.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()
	d := &xfont.Drawer{Src: image.Opaque, Face: f.face}
	width := d.MeasureString(text).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	img := image.NewAlpha(image.Rect(0, 0, width, height))
	d.Dst = img
	d.Dot = fixed.P(0, ascent)
	d.DrawString(text)
	return halfBlocks(img)
}

// halfBlocks converts the inked area of img into terminal rows.
func halfBlocks(img *image.Alpha) []string {
	ink := func(x, y int) bool {
		if !(image.Point{X: x, Y: y}.In(img.Rect)) {
			return false
		}
		return img.AlphaAt(x, y).A >= inkThreshold
	}

	box, ok := inkBounds(img, ink)
	if !ok {
		return nil
	}

	rows := make([]string, 0, (box.Dy()+1)/2)
	var b strings.Builder
	for y := box.Min.Y; y < box.Max.Y; y += 2 {
		b.Reset()
		for x := box.Min.X; x < box.Max.X; x++ {
			top, bottom := ink(x, y), ink(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}

func inkBounds(img *image.Alpha, ink func(x, y int) bool) (image.Rectangle, bool) {
	r := img.Rect
	minX, minY, maxX, maxY := r.Max.X, r.Max.Y, r.Min.X-1, r.Min.Y-1
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !ink(x, y) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

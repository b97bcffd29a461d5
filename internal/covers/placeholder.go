package covers

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math/rand/v2"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth  = 400
	placeholderHeight = 600

	titleFontSize = 40
	lineFontSize  = 30
)

// Bright backgrounds for generated covers.
var brightPalette = []color.NRGBA{
	{R: 255, G: 99, B: 71, A: 255},   // tomato red
	{R: 135, G: 206, B: 250, A: 255}, // sky blue
	{R: 255, G: 165, B: 0, A: 255},   // orange
	{R: 124, G: 252, B: 0, A: 255},   // lawn green
	{R: 255, G: 105, B: 180, A: 255}, // hot pink
	{R: 32, G: 178, B: 170, A: 255},  // light sea green
	{R: 147, G: 112, B: 219, A: 255}, // medium purple
	{R: 255, G: 223, B: 0, A: 255},   // gold
}

// Bold fonts commonly present on Linux systems, tried in order.
var defaultFontPaths = []string{
	"/usr/share/fonts/google-droid-sans-fonts/DroidSans-Bold.ttf",
	"/usr/share/fonts/open-sans/OpenSans-Bold.ttf",
	"/usr/share/fonts/liberation-sans/LiberationSans-Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
}

// Generator synthesizes a generic cover when no remote source produced one.
// Generation never fails: when no usable font file is found a minimal builtin
// face is substituted.
type Generator struct {
	// FontPaths are candidate TTF files, tried in order
	FontPaths []string
}

// NewGenerator creates a generator using the default system font candidates.
func NewGenerator() *Generator {
	return &Generator{FontPaths: defaultFontPaths}
}

// Generate renders a cover with the title, author and publication date
// centered on a randomly picked bright background.
func (g *Generator) Generate(title, author, published string) image.Image {
	bg := brightPalette[rand.IntN(len(brightPalette))]

	img := image.NewNRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	// White text everywhere except the gold background, which needs black
	// for contrast.
	textColor := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if bg == brightPalette[len(brightPalette)-1] {
		textColor = color.NRGBA{A: 255}
	}

	titleFace := g.loadFace(titleFontSize)
	lineFace := g.loadFace(lineFontSize)

	drawCenteredLine(img, titleFace, textColor, title, 150)
	drawCenteredLine(img, lineFace, textColor, "By: "+author, 300)
	drawCenteredLine(img, lineFace, textColor, "Published: "+published, 400)

	return img
}

// loadFace returns the first parseable font at the requested size, falling
// back to the builtin face when no candidate works.
func (g *Generator) loadFace(size float64) font.Face {
	for _, path := range g.FontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		parsed, err := opentype.Parse(data)
		if err != nil {
			continue
		}

		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}

		return face
	}

	slog.Debug("No system font found for placeholder cover, using builtin face")
	return basicfont.Face7x13
}

func drawCenteredLine(img draw.Image, face font.Face, c color.Color, text string, baseline int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	width := drawer.MeasureString(text)
	x := (fixed.I(placeholderWidth) - width) / 2
	if x < 0 {
		x = 0
	}

	drawer.Dot = fixed.Point26_6{X: x, Y: fixed.I(baseline)}
	drawer.DrawString(text)
}

package gui

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontName names the built-in font used when no font file loads.
const DefaultFontName = "Go Regular"

// Font is a rasterization face loaded at a fixed pixel size.
type Font struct {
	Name    string
	Size    float32
	Metrics font.Metrics

	face font.Face
}

// LineHeight returns the rounded-up line height in pixels.
func (f *Font) LineHeight() int {
	if f == nil {
		return 0
	}
	return f.Metrics.Height.Ceil()
}

// Advance returns the unscaled width of s in pixels.
func (f *Font) Advance(s string) float32 {
	if f == nil || f.face == nil {
		return 0
	}
	return float32(font.MeasureString(f.face, s)) / 64
}

// FontSize returns the default font's pixel size with FontGlobalScale
// applied, or 0 without a default font.
func (c *Context) FontSize() float32 {
	if c.io.FontDefault == nil {
		return 0
	}
	return c.io.FontDefault.Size * c.io.FontGlobalScale
}

// CalcTextSize measures text in the default font with FontGlobalScale
// applied. Lines are split on newlines; the width is the widest line.
func (c *Context) CalcTextSize(text string) image.Point {
	f := c.io.FontDefault
	if f == nil {
		return image.Point{}
	}
	lines := strings.Split(text, "\n")
	var w float32
	for _, line := range lines {
		w = max(w, f.Advance(line))
	}
	scale := float64(c.io.FontGlobalScale)
	h := float64(f.LineHeight() * len(lines))
	return image.Pt(int(math.Ceil(float64(w)*scale)), int(math.Ceil(h*scale)))
}

// FontAtlas owns every font loaded into a Context.
type FontAtlas struct {
	Fonts []*Font
}

// AddFontFromFileTTF parses the TrueType/OpenType file at path and adds a
// face of the given pixel size.
func (a *FontAtlas) AddFontFromFileTTF(path string, size float32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return a.add(filepath.Base(path), data, size)
}

// AddFontDefault adds the built-in font at the given pixel size.
func (a *FontAtlas) AddFontDefault(size float32) (*Font, error) {
	return a.add(DefaultFontName, goregular.TTF, size)
}

func (a *FontAtlas) add(name string, data []byte, size float32) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font %s: invalid size %v", name, size)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", name, err)
	}
	f := &Font{Name: name, Size: size, Metrics: face.Metrics(), face: face}
	a.Fonts = append(a.Fonts, f)
	return f, nil
}

// Clear releases every face.
func (a *FontAtlas) Clear() {
	for _, f := range a.Fonts {
		if f.face != nil {
			_ = f.face.Close()
		}
	}
	a.Fonts = nil
}

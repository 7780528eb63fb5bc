// Package raster provides the shared gg/freetype drawing surface used by every local
// image-generation path: currently the Chart Builder's "render as image" capability for
// upstream APIs that do not accept a structured chart spec directly.
package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/deckforge/deckforge/internal/domain/services/designmath"
)

// Canvas wraps a gg.Context with the font-loading/measuring/wrapping helpers shared across
// every chart type.
type Canvas struct {
	*gg.Context
	Width, Height int
}

// NewCanvas creates a canvas of the given pixel dimensions filled with background (a
// "#RRGGBB" hex colour; empty defaults to white).
func NewCanvas(width, height int, background string) (*Canvas, error) {
	dc := gg.NewContext(width, height)

	bg := color.White
	if background != "" {
		r, g, b, err := designmath.ParseHexColor(background)
		if err != nil {
			return nil, fmt.Errorf("parsing background colour: %w", err)
		}
		dc.SetColor(color.RGBA{R: r, G: g, B: b, A: 255})
		dc.Clear()
		return &Canvas{Context: dc, Width: width, Height: height}, nil
	}

	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{Context: dc, Width: width, Height: height}, nil
}

// SetHexColor sets the drawing colour from a "#RRGGBB" string, defaulting to black on a
// parse failure so a bad series colour degrades gracefully instead of aborting the render.
func (c *Canvas) SetHexColor(hex string) {
	r, g, b, err := designmath.ParseHexColor(hex)
	if err != nil {
		c.SetRGB(0, 0, 0)
		return
	}
	c.SetRGB255(int(r), int(g), int(b))
}

// LoadFont loads the embedded Go font at the given point size.
func (c *Canvas) LoadFont(size float64) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parsing embedded font: %w", err)
	}
	face := truetype.NewFace(font, &truetype.Options{Size: size})
	c.SetFontFace(face)
	return nil
}

// WrapText wraps text into lines no wider than maxWidth at the canvas's current font face.
func (c *Canvas) WrapText(text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	for _, word := range words {
		candidate := current.String()
		if candidate != "" {
			candidate += " "
		}
		candidate += word

		width, _ := c.MeasureString(candidate)
		if width > maxWidth && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// EncodePNG encodes the canvas to PNG bytes.
func (c *Canvas) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image()); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes the canvas to JPEG bytes at the given quality (1-100; <=0 defaults to 90).
func (c *Canvas) EncodeJPEG(quality int) ([]byte, error) {
	if quality <= 0 {
		quality = 90
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, c.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

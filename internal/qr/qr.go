// Package qr renders payment code strings as scannable PNG images.
package qr

import (
	"errors"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer produces PNG images entirely in memory, so nothing is ever
// written to disk. Error correction is level L, which is what payment
// apps expect for dense payment links.
type Renderer struct {
	Foreground color.Color
	Background color.Color
}

// NewRenderer returns a renderer with the default red-on-white scheme.
// The colors are cosmetic; scanners only care about contrast.
func NewRenderer() *Renderer {
	return &Renderer{
		Foreground: color.RGBA{R: 0xcc, G: 0x00, B: 0x00, A: 0xff},
		Background: color.White,
	}
}

// Render encodes content into a size x size PNG.
func (r *Renderer) Render(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("empty payment code")
	}

	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, err
	}

	q.ForegroundColor = r.Foreground
	q.BackgroundColor = r.Background

	return q.PNG(size)
}

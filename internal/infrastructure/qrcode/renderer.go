package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// Renderer encodes scan codes as PNG QR codes. It implements usecase.QRRenderer.
type Renderer struct {
	size int
}

// NewRenderer creates a renderer producing size×size images.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size}
}

// Render returns a PNG at recovery level High.
func (r *Renderer) Render(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode: empty content")
	}

	png, err := goqrcode.Encode(content, goqrcode.High, r.size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}

	return png, nil
}

// Package imaging turns an uploaded image into the normalized tensor the
// breed classifier was trained on: 224x224 RGB, ImageNet per-channel mean
// subtracted, rescaled by 1/255.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/galder-dev/dogchat/internal/domain"
)

const (
	// InputSize is the spatial resolution expected by the model.
	InputSize = 224
	// Channels is the number of color channels expected by the model.
	Channels = 3
)

// ImageNet training-set channel means, RGB order.
var channelMeans = [Channels]float32{123.68, 116.779, 103.939}

// Tensor is a rank-4 input tensor with batch dimension 1, laid out
// [1][InputSize][InputSize][Channels] in row-major order.
type Tensor struct {
	Data []float32
}

// Shape returns the tensor dimensions.
func (t *Tensor) Shape() [4]int {
	return [4]int{1, InputSize, InputSize, Channels}
}

// At returns the value at pixel (x, y), channel c.
func (t *Tensor) At(x, y, c int) float32 {
	return t.Data[(y*InputSize+x)*Channels+c]
}

// Decode parses raw upload bytes into a pixel buffer. Supported formats are
// JPEG, PNG, GIF, and WebP; anything else is an ErrInvalidImage.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return img, nil
}

// Preprocess resizes img to InputSize x InputSize with nearest-neighbor
// sampling and normalizes each channel to (pixel - mean) / 255.
func Preprocess(img image.Image) (*Tensor, error) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}

	t := &Tensor{Data: make([]float32, InputSize*InputSize*Channels)}
	i := 0
	for y := 0; y < InputSize; y++ {
		srcY := bounds.Min.Y + y*srcH/InputSize
		for x := 0; x < InputSize; x++ {
			srcX := bounds.Min.X + x*srcW/InputSize
			r, g, b := rgb8(img.At(srcX, srcY))
			t.Data[i] = (float32(r) - channelMeans[0]) / 255
			t.Data[i+1] = (float32(g) - channelMeans[1]) / 255
			t.Data[i+2] = (float32(b) - channelMeans[2]) / 255
			i += Channels
		}
	}
	return t, nil
}

// rgb8 converts a color to 8-bit RGB, dropping alpha.
func rgb8(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galder-dev/dogchat/internal/domain"
)

func solidImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.True(t, errors.Is(err, domain.ErrInvalidImage))
}

func TestPreprocessShape(t *testing.T) {
	tensor, err := Preprocess(solidImage(640, 480, color.RGBA{R: 128, G: 128, B: 128, A: 255}))
	require.NoError(t, err)

	assert.Equal(t, [4]int{1, InputSize, InputSize, Channels}, tensor.Shape())
	assert.Len(t, tensor.Data, InputSize*InputSize*Channels)
}

func TestPreprocessNormalization(t *testing.T) {
	// A uniform mid-gray image: every output value must equal (128-mean)/255
	// for its channel.
	tensor, err := Preprocess(solidImage(50, 50, color.RGBA{R: 128, G: 128, B: 128, A: 255}))
	require.NoError(t, err)

	assert.InDelta(t, (128-123.68)/255, float64(tensor.At(0, 0, 0)), 1e-5)
	assert.InDelta(t, (128-116.779)/255, float64(tensor.At(100, 100, 1)), 1e-5)
	assert.InDelta(t, (128-103.939)/255, float64(tensor.At(223, 223, 2)), 1e-5)
}

func TestPreprocessValueRange(t *testing.T) {
	tensor, err := Preprocess(solidImage(10, 10, color.RGBA{R: 255, G: 0, B: 255, A: 255}))
	require.NoError(t, err)

	// All values must lie in the range implied by (pixel - mean) / 255 for
	// pixel in [0, 255].
	lo := (0-123.68)/255 - 1e-6
	hi := (255-103.939)/255 + 1e-6
	for _, v := range tensor.Data {
		assert.GreaterOrEqual(t, float64(v), lo)
		assert.LessOrEqual(t, float64(v), hi)
	}
}

func TestPreprocessNonSquareUpscale(t *testing.T) {
	// Nearest-neighbor sampling of a 2x1 half-red, half-blue image: the left
	// half of the tensor is red, the right half blue.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	tensor, err := Preprocess(img)
	require.NoError(t, err)

	assert.InDelta(t, (255-123.68)/255, float64(tensor.At(0, 100, 0)), 1e-5)
	assert.InDelta(t, (0-123.68)/255, float64(tensor.At(223, 100, 0)), 1e-5)
	assert.InDelta(t, (255-103.939)/255, float64(tensor.At(223, 100, 2)), 1e-5)
}

func TestPreprocessEmptyImage(t *testing.T) {
	_, err := Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.True(t, errors.Is(err, domain.ErrInvalidImage))
}

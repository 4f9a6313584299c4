package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestDecode_GrayMask(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	src.SetGray(1, 2, color.Gray{Y: 255})

	img, format, err := Decode(encodeTestPNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, 1, img.Channels)
	assert.Equal(t, byte(255), img.At(1, 2, 0))
	assert.Equal(t, byte(0), img.At(0, 0, 0))
}

func TestDecode_RGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{A: 255})

	img, _, err := Decode(encodeTestPNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Channels)
	assert.Equal(t, []byte{200, 10, 30, 1, 2, 3, 0, 0, 0, 0, 0, 0}, img.Pix)
}

func TestSaveFile_RoundTrip(t *testing.T) {
	for _, channels := range []int{1, 2, 3, 4} {
		img := patchmatch.NewImage(5, 4, channels)
		for i := range img.Pix {
			img.Pix[i] = byte(i * 13)
		}
		if channels == 2 || channels == 4 {
			img.Pix[channels-1] = 100 // 保证含有alpha
		}
		if channels == 3 {
			img.Pix[0] = 1 // 保证不是灰度
		}

		path := filepath.Join(t.TempDir(), "out.png")
		require.NoError(t, SaveFile(path, img))

		back, err := DecodeFile(path)
		require.NoError(t, err)
		assert.Equal(t, img, back, "channels %d", channels)
	}
}

func TestEncodePNG_TooManyChannels(t *testing.T) {
	err := EncodePNG(&bytes.Buffer{}, patchmatch.NewImage(2, 2, 9))
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
}

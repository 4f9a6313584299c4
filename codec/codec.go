package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedChannels PNG 只能保存 1 到 4 个通道
var ErrUnsupportedChannels = errors.New("codec: unsupported channel count")

// Decode 解码图像并压缩为实际需要的通道数
func Decode(r io.Reader) (patchmatch.Image, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return patchmatch.Image{}, "", fmt.Errorf("codec: decode: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return patchmatch.Image{}, format, fmt.Errorf("codec: empty %s image", format)
	}
	rgba := toNRGBAPix(src)
	channels := EvalNumChannels(rgba, w*h)
	pix, err := CompactRGBA(rgba, w*h, channels)
	if err != nil {
		return patchmatch.Image{}, format, err
	}

	return patchmatch.Image{Width: w, Height: h, Channels: channels, Pix: pix}, format, nil
}

// toNRGBAPix 返回非预乘的RGBA字节，与常见解码库的输出一致
func toNRGBAPix(src image.Image) []byte {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*4)

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(pix[y*w*4:(y+1)*w*4], row[:w*4])
		}
		return pix
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 4
			pix[i+0], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return pix
}

// DecodeFile 从文件读取图像
func DecodeFile(path string) (patchmatch.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return patchmatch.Image{}, err
	}
	defer f.Close()

	img, _, err := Decode(bufio.NewReader(f))
	if err != nil {
		return patchmatch.Image{}, fmt.Errorf("failed to load '%s': %w", path, err)
	}
	return img, nil
}

// ToNRGBA 转换为标准库图像，用于编码
func ToNRGBA(img patchmatch.Image) (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	rgba, err := ExpandToRGBA(img.Pix, img.Width*img.Height, img.Channels)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    rgba,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}, nil
}

// EncodePNG 以PNG格式写出图像
func EncodePNG(w io.Writer, img patchmatch.Image) error {
	if img.Channels == 1 {
		if err := img.Validate(); err != nil {
			return err
		}
		gray := &image.Gray{Pix: img.Pix, Stride: img.Width, Rect: image.Rect(0, 0, img.Width, img.Height)}
		return png.Encode(w, gray)
	}
	nrgba, err := ToNRGBA(img)
	if err != nil {
		return err
	}
	return png.Encode(w, nrgba)
}

// SaveFile 将图像保存为PNG文件
func SaveFile(path string, img patchmatch.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := EncodePNG(bw, img); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

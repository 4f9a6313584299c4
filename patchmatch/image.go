package patchmatch

import "fmt"

// Image 按行优先、通道交错存储的8位图像缓冲区
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewImage 分配指定尺寸的零值图像
func NewImage(width, height, channels int) Image {
	return Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Validate 检查尺寸与缓冲区长度是否一致
func (im Image) Validate() error {
	if im.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidChannelCount, im.Channels)
	}
	if im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidImage, im.Width, im.Height)
	}
	if want := im.Width * im.Height * im.Channels; len(im.Pix) != want {
		return fmt.Errorf("%w: have %d bytes, want %d for %dx%dx%d",
			ErrInvalidImage, len(im.Pix), want, im.Width, im.Height, im.Channels)
	}
	return nil
}

// Shape 返回 (height, width, channels)
func (im Image) Shape() (int, int, int) {
	return im.Height, im.Width, im.Channels
}

func (im Image) At(x, y, c int) byte {
	return im.Pix[(y*im.Width+x)*im.Channels+c]
}

func (im Image) Set(x, y, c int, v byte) {
	im.Pix[(y*im.Width+x)*im.Channels+c] = v
}

// Invert 返回逐字节取反后的新缓冲区，原图不变
func Invert(pix []byte) []byte {
	inv := make([]byte, len(pix))
	for i, b := range pix {
		inv[i] = ^b
	}
	return inv
}

// reshape 将后端写好的扁平缓冲区按原图几何包装回图像，不复制也不重排
func reshape(pix []byte, height, width, channels int) Image {
	return Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      pix,
	}
}

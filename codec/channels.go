package codec

import (
	"fmt"

	"github.com/TIANLI0/InpaintKit/patchmatch"
)

// EvalNumChannels 根据RGBA数据判断实际需要的通道数
//
// 所有像素 r==g==b 视为灰度(1通道)，否则为3通道；任一像素 alpha<255 时再加一个alpha通道。
func EvalNumChannels(rgba []byte, numPixels int) int {
	isGray := true
	hasAlpha := false

	for xy := 0; xy < numPixels; xy++ {
		r := rgba[xy*4+0]
		g := rgba[xy*4+1]
		b := rgba[xy*4+2]
		a := rgba[xy*4+3]

		if r != g || g != b {
			isGray = false
		}
		if a < 255 {
			hasAlpha = true
		}
		if !isGray && hasAlpha {
			break
		}
	}

	channels := 3
	if isGray {
		channels = 1
	}
	if hasAlpha {
		channels++
	}
	return channels
}

// CompactRGBA 将RGBA数据压缩为指定通道数的交错布局
//
// 2通道时保存 (gray, alpha)。
func CompactRGBA(rgba []byte, numPixels, channels int) ([]byte, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("codec: cannot compact RGBA into %d channels", channels)
	}
	if len(rgba) < numPixels*4 {
		return nil, fmt.Errorf("codec: RGBA buffer too short: %d < %d", len(rgba), numPixels*4)
	}

	data := make([]byte, numPixels*channels)
	for xy := 0; xy < numPixels; xy++ {
		src := rgba[xy*4 : xy*4+4]
		dst := data[xy*channels : xy*channels+channels]
		dst[0] = src[0]
		switch channels {
		case 2:
			dst[1] = src[3]
		case 3:
			dst[1], dst[2] = src[1], src[2]
		case 4:
			dst[1], dst[2], dst[3] = src[1], src[2], src[3]
		}
	}
	return data, nil
}

// ExpandToRGBA 是 CompactRGBA 的逆过程，用于编码输出
func ExpandToRGBA(pix []byte, numPixels, channels int) ([]byte, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, channels)
	}
	rgba := make([]byte, numPixels*4)
	for xy := 0; xy < numPixels; xy++ {
		src := pix[xy*channels : xy*channels+channels]
		dst := rgba[xy*4 : xy*4+4]
		switch channels {
		case 1:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 255
		case 2:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		case 3:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 255
		case 4:
			copy(dst, src)
		}
	}
	return rgba, nil
}

// Stack 按通道拼接多张同尺寸图像，例如把SVBRDF的各张贴图合成一个多通道缓冲区
func Stack(images ...patchmatch.Image) (patchmatch.Image, error) {
	if len(images) == 0 {
		return patchmatch.Image{}, fmt.Errorf("codec: nothing to stack")
	}
	w, h := images[0].Width, images[0].Height
	total := 0
	for i, im := range images {
		if err := im.Validate(); err != nil {
			return patchmatch.Image{}, fmt.Errorf("codec: stack input %d: %w", i, err)
		}
		if im.Width != w || im.Height != h {
			return patchmatch.Image{}, fmt.Errorf("%w: stack input %d is %dx%d, want %dx%d",
				patchmatch.ErrShapeMismatch, i, im.Width, im.Height, w, h)
		}
		total += im.Channels
	}

	out := patchmatch.NewImage(w, h, total)
	for xy := 0; xy < w*h; xy++ {
		offset := xy * total
		for _, im := range images {
			offset += copy(out.Pix[offset:], im.Pix[xy*im.Channels:(xy+1)*im.Channels])
		}
	}
	return out, nil
}

// Split 是 Stack 的逆过程，channels 给出每张图像的通道数
func Split(stacked patchmatch.Image, channels ...int) ([]patchmatch.Image, error) {
	total := 0
	for _, c := range channels {
		if c < 1 {
			return nil, fmt.Errorf("%w: %d channels", patchmatch.ErrInvalidChannelCount, c)
		}
		total += c
	}
	if total != stacked.Channels {
		return nil, fmt.Errorf("codec: split into %d channels, image has %d", total, stacked.Channels)
	}

	out := make([]patchmatch.Image, len(channels))
	for i, c := range channels {
		out[i] = patchmatch.NewImage(stacked.Width, stacked.Height, c)
	}
	for xy := 0; xy < stacked.Width*stacked.Height; xy++ {
		offset := xy * total
		for i, c := range channels {
			copy(out[i].Pix[xy*c:(xy+1)*c], stacked.Pix[offset:offset+c])
			offset += c
		}
	}
	return out, nil
}

package service

import (
	"fmt"
	"image"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	"gocv.io/x/gocv"
)

// MaskProcessor 负责空洞掩码的预处理
type MaskProcessor struct {
	threshold int
	dilate    int
}

func NewMaskProcessor(threshold, dilate int) *MaskProcessor {
	return &MaskProcessor{
		threshold: threshold,
		dilate:    dilate,
	}
}

// Prepare 二值化并按需膨胀空洞，逐通道处理，返回新掩码
func (mp *MaskProcessor) Prepare(mask patchmatch.Image) (patchmatch.Image, error) {
	if err := mask.Validate(); err != nil {
		return patchmatch.Image{}, err
	}

	out := patchmatch.NewImage(mask.Width, mask.Height, mask.Channels)
	for c := 0; c < mask.Channels; c++ {
		plane, err := planeMat(mask, c)
		if err != nil {
			return patchmatch.Image{}, err
		}

		binary := mp.binarize(&plane)
		plane.Close()

		if mp.dilate > 0 {
			grown := mp.growHole(&binary, mp.dilate)
			binary.Close()
			binary = grown
		}

		setPlane(out, c, binary.ToBytes())
		binary.Close()
	}
	return out, nil
}

// HoleRatio 计算任一通道为空洞的像素比例
func (mp *MaskProcessor) HoleRatio(mask patchmatch.Image) (float64, error) {
	if err := mask.Validate(); err != nil {
		return 0, err
	}

	union := gocv.Zeros(mask.Height, mask.Width, gocv.MatTypeCV8U)
	defer union.Close()
	for c := 0; c < mask.Channels; c++ {
		plane, err := planeMat(mask, c)
		if err != nil {
			return 0, err
		}
		gocv.BitwiseOr(union, plane, &union)
		plane.Close()
	}

	return float64(gocv.CountNonZero(union)) / float64(mask.Width*mask.Height), nil
}

// binarize 大于阈值的像素视为空洞(255)，其余为0
func (mp *MaskProcessor) binarize(plane *gocv.Mat) gocv.Mat {
	binary := gocv.NewMat()
	gocv.Threshold(*plane, &binary, float32(mp.threshold), 255, gocv.ThresholdBinary)
	return binary
}

// growHole 用椭圆核膨胀空洞，让边缘的半透明过渡也被重新合成
func (mp *MaskProcessor) growHole(mask *gocv.Mat, radius int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 2*radius + 1, Y: 2*radius + 1})
	defer kernel.Close()

	grown := gocv.NewMat()
	gocv.Dilate(*mask, &grown, kernel)
	return grown
}

// planeMat 提取单个通道为 CV_8U 矩阵
func planeMat(img patchmatch.Image, c int) (gocv.Mat, error) {
	plane := make([]byte, img.Width*img.Height)
	for xy := range plane {
		plane[xy] = img.Pix[xy*img.Channels+c]
	}
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8U, plane)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap mask channel %d: %w", c, err)
	}
	return mat, nil
}

func setPlane(img patchmatch.Image, c int, plane []byte) {
	for xy, v := range plane {
		img.Pix[xy*img.Channels+c] = v
	}
}

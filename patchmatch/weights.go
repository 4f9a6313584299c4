package patchmatch

import "fmt"

// NormalizeWeights 计算引导图与掩码的逐通道权重
//
// 图像通道均分 1.0，掩码通道均分 maskImportance。
func NormalizeWeights(imageChannels, maskChannels int, maskImportance float32) ([]float32, []float32, error) {
	if imageChannels <= 0 || maskChannels <= 0 {
		return nil, nil, fmt.Errorf("%w: image %d, mask %d", ErrInvalidChannelCount, imageChannels, maskChannels)
	}
	if maskImportance < 0 {
		return nil, nil, fmt.Errorf("%w: negative mask importance %g", ErrInvalidOptions, maskImportance)
	}

	imageWeights := fillWeights(imageChannels, 1.0/float32(imageChannels))
	maskWeights := fillWeights(maskChannels, maskImportance/float32(maskChannels))
	return imageWeights, maskWeights, nil
}

func fillWeights(n int, w float32) []float32 {
	weights := make([]float32, n)
	for i := range weights {
		weights[i] = w
	}
	return weights
}

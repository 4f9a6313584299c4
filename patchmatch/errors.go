package patchmatch

import "errors"

var (
	// ErrBackendUnavailable 所需的计算后端不可用
	ErrBackendUnavailable = errors.New("patchmatch: compute backend unavailable")

	// ErrInvalidChannelCount 图像或掩码通道数为零或超出后端上限
	ErrInvalidChannelCount = errors.New("patchmatch: invalid channel count")

	// ErrPyramidTooShallow 图像尺寸连一层金字塔都放不下一个完整的patch
	ErrPyramidTooShallow = errors.New("patchmatch: image too small for patch size")

	// ErrBackendExecution 后端执行失败，不重试
	ErrBackendExecution = errors.New("patchmatch: backend execution failed")

	ErrInvalidOptions = errors.New("patchmatch: invalid options")
	ErrInvalidImage   = errors.New("patchmatch: invalid image buffer")
	ErrShapeMismatch  = errors.New("patchmatch: image and mask shape mismatch")
)

// IsInputError 判断错误是否由调用方输入引起
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidChannelCount) ||
		errors.Is(err, ErrPyramidTooShallow) ||
		errors.Is(err, ErrInvalidOptions) ||
		errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrShapeMismatch)
}

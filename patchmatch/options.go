package patchmatch

import "fmt"

// Options 单次合成的可调参数
type Options struct {
	// MaskImportance 掩码通道的整体权重
	MaskImportance float32
	// Uniformity 对重复使用同一源patch的惩罚强度
	Uniformity float32
	// PatchSize 方形patch边长，必须为奇数
	PatchSize int
	// PyramidLevels AutoLevels 或显式层数
	PyramidLevels   int
	SearchVoteIters int
	PatchMatchIters int
	StopThreshold   int
	Extra3x3Pass    bool
	VoteMode        VoteMode

	// 可选的逐层调度，长度必须等于最终层数；为 nil 时复制上面的标量
	SearchVoteItersPerLevel []int
	PatchMatchItersPerLevel []int
	StopThresholdPerLevel   []int
}

// DefaultOptions 返回默认参数
func DefaultOptions() Options {
	return Options{
		MaskImportance:  1,
		Uniformity:      3500,
		PatchSize:       5,
		PyramidLevels:   AutoLevels,
		SearchVoteIters: 6,
		PatchMatchIters: 4,
		StopThreshold:   1,
		Extra3x3Pass:    false,
		VoteMode:        VoteWeighted,
	}
}

// Validate 检查参数取值范围
func (o Options) Validate() error {
	switch {
	case o.PatchSize < 1:
		return fmt.Errorf("%w: patch size %d is too small", ErrInvalidOptions, o.PatchSize)
	case o.PatchSize%2 == 0:
		return fmt.Errorf("%w: patch size %d must be odd", ErrInvalidOptions, o.PatchSize)
	case o.PyramidLevels == 0 || o.PyramidLevels < AutoLevels:
		return fmt.Errorf("%w: pyramid levels %d", ErrInvalidOptions, o.PyramidLevels)
	case o.SearchVoteIters < 0:
		return fmt.Errorf("%w: search/vote iterations %d", ErrInvalidOptions, o.SearchVoteIters)
	case o.PatchMatchIters < 0:
		return fmt.Errorf("%w: patchmatch iterations %d", ErrInvalidOptions, o.PatchMatchIters)
	case o.StopThreshold < 0:
		return fmt.Errorf("%w: stop threshold %d", ErrInvalidOptions, o.StopThreshold)
	case o.Uniformity < 0:
		return fmt.Errorf("%w: uniformity %g", ErrInvalidOptions, o.Uniformity)
	case o.MaskImportance < 0:
		return fmt.Errorf("%w: mask importance %g", ErrInvalidOptions, o.MaskImportance)
	case o.VoteMode != VotePlain && o.VoteMode != VoteWeighted:
		return fmt.Errorf("%w: vote mode %d", ErrInvalidOptions, int(o.VoteMode))
	}
	return nil
}

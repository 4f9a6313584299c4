package patchmatch

import (
	"fmt"
	"math"
)

const (
	// maxPyramidScan 从该层开始向下扫描
	maxPyramidScan = 32

	// AutoLevels 表示由几何尺寸自动决定金字塔层数
	AutoLevels = -1
)

// Plan 金字塔层数规划结果
type Plan struct {
	MaxLevels int
	Levels    int
}

// LevelSize 返回第 level 层的尺寸，按四舍六入五成双取整
func LevelSize(width, height, level int) (int, int) {
	w := math.RoundToEven(math.Ldexp(float64(width), -level))
	h := math.RoundToEven(math.Ldexp(float64(height), -level))
	return int(w), int(h)
}

// MinPatchExtent 一层金字塔至少需要的边长
func MinPatchExtent(patchSize int) int {
	return 2*patchSize + 1
}

// MaxPyramidLevels 计算在给定patch尺寸下几何允许的最大层数
func MaxPyramidLevels(width, height, patchSize int) (int, error) {
	need := MinPatchExtent(patchSize)
	for level := maxPyramidScan; level >= 0; level-- {
		w, h := LevelSize(width, height, level)
		if min(w, h) >= need {
			return level + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %dx%d cannot hold a %d px extent for patch size %d",
		ErrPyramidTooShallow, width, height, need, patchSize)
}

// PlanPyramid 将请求的层数限制在几何允许的范围内
//
// requested 为 AutoLevels 时直接使用最大层数。
func PlanPyramid(width, height, patchSize, requested int) (Plan, error) {
	if requested == 0 || requested < AutoLevels {
		return Plan{}, fmt.Errorf("%w: pyramid levels %d", ErrInvalidOptions, requested)
	}

	maxLevels, err := MaxPyramidLevels(width, height, patchSize)
	if err != nil {
		return Plan{}, err
	}

	levels := maxLevels
	if requested != AutoLevels {
		levels = min(requested, maxLevels)
	}
	return Plan{MaxLevels: maxLevels, Levels: levels}, nil
}

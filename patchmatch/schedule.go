package patchmatch

import "fmt"

// Expand 将标量复制到每一层，levels 小于 1 时返回 nil
func Expand(scalar, levels int) []int {
	if levels < 1 {
		return nil
	}
	perLevel := make([]int, levels)
	for i := range perLevel {
		perLevel[i] = scalar
	}
	return perLevel
}

// ExpandSchedule 优先使用显式的逐层参数，否则复制标量
func ExpandSchedule(scalar int, perLevel []int, levels int) ([]int, error) {
	if perLevel == nil {
		return Expand(scalar, levels), nil
	}
	if len(perLevel) != levels {
		return nil, fmt.Errorf("%w: per-level schedule has %d entries, pyramid has %d levels",
			ErrInvalidOptions, len(perLevel), levels)
	}
	out := make([]int, levels)
	for i, v := range perLevel {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative schedule value %d at level %d", ErrInvalidOptions, v, i)
		}
		out[i] = v
	}
	return out, nil
}

// Schedule 三组逐层参数
type Schedule struct {
	SearchVoteIters []int
	PatchMatchIters []int
	StopThreshold   []int
}

func buildSchedule(opts Options, levels int) (Schedule, error) {
	searchVote, err := ExpandSchedule(opts.SearchVoteIters, opts.SearchVoteItersPerLevel, levels)
	if err != nil {
		return Schedule{}, fmt.Errorf("search/vote iterations: %w", err)
	}
	patchMatch, err := ExpandSchedule(opts.PatchMatchIters, opts.PatchMatchItersPerLevel, levels)
	if err != nil {
		return Schedule{}, fmt.Errorf("patchmatch iterations: %w", err)
	}
	stop, err := ExpandSchedule(opts.StopThreshold, opts.StopThresholdPerLevel, levels)
	if err != nil {
		return Schedule{}, fmt.Errorf("stop threshold: %w", err)
	}
	return Schedule{
		SearchVoteIters: searchVote,
		PatchMatchIters: patchMatch,
		StopThreshold:   stop,
	}, nil
}

package config

import "github.com/TIANLI0/InpaintKit/patchmatch"

// Options 将配置中的合成默认值转换为 patchmatch.Options
func (c SynthesisConfig) Options() (patchmatch.Options, error) {
	voteMode, err := patchmatch.ParseVoteMode(c.VoteMode)
	if err != nil {
		return patchmatch.Options{}, err
	}
	opts := patchmatch.Options{
		MaskImportance:  c.Weight,
		Uniformity:      c.Uniformity,
		PatchSize:       c.PatchSize,
		PyramidLevels:   c.PyramidLevels,
		SearchVoteIters: c.SearchVoteIters,
		PatchMatchIters: c.PatchMatchIters,
		StopThreshold:   c.StopThreshold,
		Extra3x3Pass:    c.ExtraPass3x3,
		VoteMode:        voteMode,
	}
	if err := opts.Validate(); err != nil {
		return patchmatch.Options{}, err
	}
	return opts, nil
}

// BackendKind 解析配置的后端类型
func (c BackendConfig) BackendKind() (patchmatch.BackendKind, error) {
	return patchmatch.ParseBackendKind(c.Kind)
}

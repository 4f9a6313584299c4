package model

// InpaintResult 补全结果
type InpaintResult struct {
	Key        string         `json:"key"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Channels   int            `json:"channels"`
	HoleRatio  float64        `json:"hole_ratio"`
	Parameters SynthesisParam `json:"parameters"`
	Image      string         `json:"image"` // base64编码的PNG
	DurationMs int64          `json:"duration_ms"`
	Timestamp  int64          `json:"timestamp"`
}

// SynthesisParam 实际使用的合成参数
type SynthesisParam struct {
	Weight          float32 `json:"weight"`
	Uniformity      float32 `json:"uniformity"`
	PatchSize       int     `json:"patch_size"`
	PyramidLevels   int     `json:"pyramid_levels"`
	MaxLevels       int     `json:"max_pyramid_levels"`
	SearchVoteIters int     `json:"search_vote_iters"`
	PatchMatchIters int     `json:"patch_match_iters"`
	StopThreshold   int     `json:"stop_threshold"`
	ExtraPass3x3    bool    `json:"extra_pass_3x3"`
	VoteMode        string  `json:"vote_mode"`
	Backend         string  `json:"backend"`
}

// PyramidPlan 金字塔规划预览
type PyramidPlan struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	PatchSize int          `json:"patch_size"`
	MaxLevels int          `json:"max_levels"`
	Levels    int          `json:"levels"`
	Sizes     []PyramidDim `json:"sizes"`
}

// PyramidDim 单层尺寸，Level 0 为原始分辨率
type PyramidDim struct {
	Level  int `json:"level"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BackendStatus 后端状态
type BackendStatus struct {
	Kind      string `json:"kind"`
	Linked    bool   `json:"linked"`
	Available bool   `json:"available"`
}

// InpaintResponse 补全响应
type InpaintResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *InpaintResult `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

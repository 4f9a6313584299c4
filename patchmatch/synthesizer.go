package patchmatch

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Synthesizer 多分辨率PatchMatch合成的调度器
//
// Synthesizer 本身不保存跨调用的状态，可被多个goroutine同时使用；
// 后端是否允许并发调用取决于 Backend 的实现。
type Synthesizer struct {
	backend Backend
	kind    BackendKind
	logger  *zap.Logger

	// 0 表示不限制
	maxImageChannels int
	maxMaskChannels  int
}

// SynthesizerOption 配置 Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithBackendKind 指定要求的后端类型，默认CUDA，不会自动回退
func WithBackendKind(kind BackendKind) SynthesizerOption {
	return func(s *Synthesizer) {
		s.kind = kind
	}
}

// WithChannelLimits 设置后端能接受的最大图像/掩码通道数，超出时在调用后端前失败
func WithChannelLimits(maxImageChannels, maxMaskChannels int) SynthesizerOption {
	return func(s *Synthesizer) {
		s.maxImageChannels = maxImageChannels
		s.maxMaskChannels = maxMaskChannels
	}
}

func WithLogger(logger *zap.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynthesizer 使用给定后端句柄创建调度器
func NewSynthesizer(backend Backend, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		backend: backend,
		kind:    BackendCUDA,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind 返回要求的后端类型
func (s *Synthesizer) Kind() BackendKind {
	return s.kind
}

// Available 查询要求的后端是否可用
func (s *Synthesizer) Available() bool {
	return s.backend != nil && s.backend.Available(s.kind)
}

// Synthesize 填补 mask 中非零区域，返回与 image 同形状的新图像
//
// 失败时不返回任何部分结果。
func (s *Synthesizer) Synthesize(image, mask Image, opts Options) (Image, error) {
	out, _, err := s.SynthesizeWithPlan(image, mask, opts)
	return out, err
}

// SynthesizeWithPlan 同 Synthesize，并返回本次请求实际使用的金字塔规划
func (s *Synthesizer) SynthesizeWithPlan(image, mask Image, opts Options) (Image, Plan, error) {
	if !s.Available() {
		return Image{}, Plan{}, fmt.Errorf("%w: %s", ErrBackendUnavailable, s.kind)
	}
	if err := s.checkChannels(image, mask); err != nil {
		return Image{}, Plan{}, err
	}

	req, err := NewRequest(image, mask, s.kind, opts)
	if err != nil {
		return Image{}, Plan{}, err
	}

	s.logger.Info("patchmatch synthesis",
		zap.Float32("uniformity", req.Uniformity),
		zap.Float32("weight", opts.MaskImportance),
		zap.Int("patchsize", req.PatchSize),
		zap.Int("pyramidlevels", req.Levels()),
		zap.Int("max_pyramidlevels", req.Plan.MaxLevels),
		zap.Int("searchvoteiters", opts.SearchVoteIters),
		zap.Int("patchmatchiters", opts.PatchMatchIters),
		zap.Int("stopthreshold", opts.StopThreshold),
		zap.Bool("extrapass3x3", req.Extra3x3Pass),
		zap.Stringer("votemode", req.VoteMode),
		zap.Stringer("backend", req.Kind))

	out := make([]byte, req.OutputLen())
	start := time.Now()
	if err := s.backend.Run(req, out); err != nil {
		return Image{}, Plan{}, fmt.Errorf("%w: %w", ErrBackendExecution, err)
	}

	s.logger.Debug("patchmatch synthesis finished",
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Duration("duration", time.Since(start)))

	return reshape(out, req.Height, req.Width, req.ImageChannels), req.Plan, nil
}

func (s *Synthesizer) checkChannels(image, mask Image) error {
	if s.maxImageChannels > 0 && image.Channels > s.maxImageChannels {
		return fmt.Errorf("%w: too many image channels (%d), maximum number is %d",
			ErrInvalidChannelCount, image.Channels, s.maxImageChannels)
	}
	if s.maxMaskChannels > 0 && mask.Channels > s.maxMaskChannels {
		return fmt.Errorf("%w: too many mask channels (%d), maximum number is %d",
			ErrInvalidChannelCount, mask.Channels, s.maxMaskChannels)
	}
	return nil
}

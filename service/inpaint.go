package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/TIANLI0/InpaintKit/codec"
	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/ebsynth"
	"github.com/TIANLI0/InpaintKit/model"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/TIANLI0/InpaintKit/utils"
	"go.uber.org/zap"
)

// InpaintService 负责图像补全任务
//
// 同一时间最多 max_concurrent 个任务进入后端，其余任务排队直到超时。
type InpaintService struct {
	synthesizer   *patchmatch.Synthesizer
	maskProcessor *MaskProcessor
	semaphore     chan struct{}
	queueTimeout  time.Duration
	defaults      patchmatch.Options
}

func NewInpaintService(cfg *config.Config, synthesizer *patchmatch.Synthesizer) (*InpaintService, error) {
	defaults, err := cfg.Synthesis.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid synthesis config: %w", err)
	}

	maxConcurrent := cfg.Backend.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &InpaintService{
		synthesizer:   synthesizer,
		maskProcessor: NewMaskProcessor(cfg.Mask.Threshold, cfg.Mask.Dilate),
		semaphore:     make(chan struct{}, maxConcurrent),
		queueTimeout:  time.Duration(cfg.Backend.QueueTimeout) * time.Second,
		defaults:      defaults,
	}, nil
}

// Defaults 返回配置中的默认合成参数
func (s *InpaintService) Defaults() patchmatch.Options {
	return s.defaults
}

// BackendStatus 查询后端状态
func (s *InpaintService) BackendStatus() model.BackendStatus {
	return model.BackendStatus{
		Kind:      s.synthesizer.Kind().String(),
		Linked:    ebsynth.Enabled(),
		Available: s.synthesizer.Available(),
	}
}

// ProcessFiles 读取图像与掩码文件并补全
func (s *InpaintService) ProcessFiles(ctx context.Context, imagePath, maskPath, key string, opts patchmatch.Options) (*model.InpaintResult, error) {
	// 并发控制
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if !s.synthesizer.Available() {
		return nil, fmt.Errorf("%w: %s", patchmatch.ErrBackendUnavailable, s.synthesizer.Kind())
	}

	startTime := time.Now()

	img, err := codec.DecodeFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", patchmatch.ErrInvalidImage, err)
	}
	rawMask, err := codec.DecodeFile(maskPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", patchmatch.ErrInvalidImage, err)
	}

	if img.Width != rawMask.Width || img.Height != rawMask.Height {
		return nil, fmt.Errorf("%w: source shape is %dx%dx%d, mask shape is %dx%dx%d",
			patchmatch.ErrShapeMismatch, img.Width, img.Height, img.Channels,
			rawMask.Width, rawMask.Height, rawMask.Channels)
	}

	utils.Logger.Info("processing inpaint job",
		zap.String("key", key),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("channels", img.Channels),
		zap.Int("mask_channels", rawMask.Channels))

	mask, err := s.maskProcessor.Prepare(rawMask)
	if err != nil {
		return nil, err
	}
	holeRatio, err := s.maskProcessor.HoleRatio(mask)
	if err != nil {
		return nil, err
	}

	output, plan, err := s.synthesizer.SynthesizeWithPlan(img, mask, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := codec.EncodePNG(&buf, output); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	duration := time.Since(startTime)
	result := &model.InpaintResult{
		Key:        key,
		Width:      output.Width,
		Height:     output.Height,
		Channels:   output.Channels,
		HoleRatio:  holeRatio,
		Parameters: describe(opts, plan, s.synthesizer.Kind()),
		Image:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		DurationMs: duration.Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}

	utils.Logger.Info("inpaint job finished",
		zap.String("key", key),
		zap.Duration("duration", duration),
		zap.Float64("hole_ratio", holeRatio),
		zap.Int("pyramid_levels", plan.Levels))

	return result, nil
}

// acquire 等待空闲槽位，最多等待 queueTimeout
//
// 请求本身被取消时返回 ctx.Err()，排队超时返回 model.ErrQueueFull。
func (s *InpaintService) acquire(ctx context.Context) error {
	select {
	case s.semaphore <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(s.queueTimeout)
	defer timer.Stop()

	select {
	case s.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return model.ErrQueueFull
	}
}

func (s *InpaintService) release() {
	<-s.semaphore
}

// describe 汇总实际使用的参数
func describe(opts patchmatch.Options, plan patchmatch.Plan, kind patchmatch.BackendKind) model.SynthesisParam {
	return model.SynthesisParam{
		Weight:          opts.MaskImportance,
		Uniformity:      opts.Uniformity,
		PatchSize:       opts.PatchSize,
		PyramidLevels:   plan.Levels,
		MaxLevels:       plan.MaxLevels,
		SearchVoteIters: opts.SearchVoteIters,
		PatchMatchIters: opts.PatchMatchIters,
		StopThreshold:   opts.StopThreshold,
		ExtraPass3x3:    opts.Extra3x3Pass,
		VoteMode:        opts.VoteMode.String(),
		Backend:         kind.String(),
	}
}

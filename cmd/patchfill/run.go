package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TIANLI0/InpaintKit/codec"
	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/ebsynth"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/TIANLI0/InpaintKit/service"
	"github.com/TIANLI0/InpaintKit/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type runFlags struct {
	configPath      string
	albedo          string
	mask            string
	output          string
	maps            []string
	weight          float32
	uniformity      float32
	patchSize       int
	pyramidLevels   int
	searchVoteIters int
	patchMatchIters int
	stopThreshold   int
	extraPass3x3    bool
	backend         string
	voteMode        string
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill the masked region of an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInpaint(cmd.Flags(), f)
		},
	}

	bindRunFlags(cmd.Flags(), f)

	return cmd
}

func bindRunFlags(fs *pflag.FlagSet, f *runFlags) {
	fs.StringVar(&f.configPath, "config", "config.yaml", "config file with synthesis defaults")
	fs.StringVar(&f.albedo, "albedo", "albedo.png", "image to fill")
	fs.StringVar(&f.mask, "mask", "bmask0.png", "hole mask, non-zero pixels are filled")
	fs.StringVar(&f.output, "output", "", "output file (default <albedo>_inpainted.png)")
	fs.StringArrayVar(&f.maps, "map", nil, "extra map filled together with the albedo, repeatable")
	fs.Float32Var(&f.weight, "weight", 1, "importance of the mask guide")
	fs.Float32Var(&f.uniformity, "uniformity", 3500, "uniformity weight")
	fs.IntVar(&f.patchSize, "patchsize", 5, "patch size, odd and at least 3")
	fs.IntVar(&f.pyramidLevels, "pyramidlevels", patchmatch.AutoLevels, "pyramid levels, -1 for as many as fit")
	fs.IntVar(&f.searchVoteIters, "searchvoteiters", 6, "search/vote iterations per level")
	fs.IntVar(&f.patchMatchIters, "patchmatchiters", 4, "PatchMatch iterations per search")
	fs.IntVar(&f.stopThreshold, "stopthreshold", 1, "stop threshold per level")
	fs.BoolVar(&f.extraPass3x3, "extrapass3x3", false, "run an extra 3x3 patch pass at the finest level")
	fs.StringVar(&f.backend, "backend", "", "backend kind, cpu or cuda (default from config)")
	fs.StringVar(&f.voteMode, "votemode", "", "vote mode, plain or weighted (default from config)")
}

// resolveOptions 在配置默认值上应用命令行中显式给出的参数
func resolveOptions(fs *pflag.FlagSet, f *runFlags, cfg *config.Config) (patchmatch.Options, patchmatch.BackendKind, error) {
	opts, err := cfg.Synthesis.Options()
	if err != nil {
		return opts, 0, fmt.Errorf("invalid synthesis config: %w", err)
	}

	if fs.Changed("weight") {
		opts.MaskImportance = f.weight
	}
	if fs.Changed("uniformity") {
		opts.Uniformity = f.uniformity
	}
	if fs.Changed("patchsize") {
		if f.patchSize < 3 {
			return opts, 0, fmt.Errorf("%w: patchsize is too small", patchmatch.ErrInvalidOptions)
		}
		if f.patchSize%2 == 0 {
			return opts, 0, fmt.Errorf("%w: patchsize must be an odd number", patchmatch.ErrInvalidOptions)
		}
		opts.PatchSize = f.patchSize
	}
	if fs.Changed("pyramidlevels") {
		if f.pyramidLevels < 1 {
			return opts, 0, fmt.Errorf("%w: bad argument for --pyramidlevels", patchmatch.ErrInvalidOptions)
		}
		opts.PyramidLevels = f.pyramidLevels
	}
	if fs.Changed("searchvoteiters") {
		opts.SearchVoteIters = f.searchVoteIters
	}
	if fs.Changed("patchmatchiters") {
		opts.PatchMatchIters = f.patchMatchIters
	}
	if fs.Changed("stopthreshold") {
		opts.StopThreshold = f.stopThreshold
	}
	if fs.Changed("extrapass3x3") {
		opts.Extra3x3Pass = f.extraPass3x3
	}
	if f.voteMode != "" {
		if opts.VoteMode, err = patchmatch.ParseVoteMode(f.voteMode); err != nil {
			return opts, 0, err
		}
	}
	if err := opts.Validate(); err != nil {
		return opts, 0, err
	}

	kindName := cfg.Backend.Kind
	if f.backend != "" {
		kindName = f.backend
	}
	kind, err := patchmatch.ParseBackendKind(kindName)
	if err != nil {
		return opts, 0, err
	}

	return opts, kind, nil
}

// loadConfig 指定的配置文件不存在时使用默认配置
func loadConfig(fs *pflag.FlagSet, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if fs.Changed("config") {
		return nil, err
	}
	return config.New(), nil
}

// outputName 由输入文件名推导输出文件名
func outputName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_inpainted.png"
}

func runInpaint(fs *pflag.FlagSet, f *runFlags) error {
	cfg, err := loadConfig(fs, f.configPath)
	if err != nil {
		return err
	}
	opts, kind, err := resolveOptions(fs, f, cfg)
	if err != nil {
		return err
	}

	synthesizer := patchmatch.NewSynthesizer(ebsynth.New(),
		patchmatch.WithBackendKind(kind),
		patchmatch.WithChannelLimits(ebsynth.MaxStyleChannels, ebsynth.MaxGuideChannels),
		patchmatch.WithLogger(utils.Logger))
	if !synthesizer.Available() {
		return fmt.Errorf("%w: the %s backend is not available", patchmatch.ErrBackendUnavailable, kind)
	}

	inputs := append([]string{f.albedo}, f.maps...)
	outputs := make([]string, len(inputs))
	layers := make([]patchmatch.Image, len(inputs))
	channels := make([]int, len(inputs))
	for i, path := range inputs {
		img, err := codec.DecodeFile(path)
		if err != nil {
			return err
		}
		layers[i] = img
		channels[i] = img.Channels
		outputs[i] = outputName(path)
	}
	if f.output != "" {
		outputs[0] = f.output
	}

	image, err := codec.Stack(layers...)
	if err != nil {
		return err
	}

	rawMask, err := codec.DecodeFile(f.mask)
	if err != nil {
		return err
	}
	if image.Width != rawMask.Width || image.Height != rawMask.Height {
		return fmt.Errorf("%w: source shape is %dx%dx%d, mask shape is %dx%dx%d",
			patchmatch.ErrShapeMismatch, image.Width, image.Height, image.Channels,
			rawMask.Width, rawMask.Height, rawMask.Channels)
	}
	mask, err := service.NewMaskProcessor(cfg.Mask.Threshold, cfg.Mask.Dilate).Prepare(rawMask)
	if err != nil {
		return err
	}

	result, err := synthesizer.Synthesize(image, mask, opts)
	if err != nil {
		return err
	}

	filled, err := codec.Split(result, channels...)
	if err != nil {
		return err
	}
	for i, img := range filled {
		if err := codec.SaveFile(outputs[i], img); err != nil {
			return err
		}
		utils.Logger.Info("result was written", zap.String("file", outputs[i]))
	}
	return nil
}

package patchmatch

import "fmt"

// Request 一次后端调用所需的全部参数，构造后只读
type Request struct {
	Kind BackendKind

	ImageChannels int
	MaskChannels  int
	Width         int
	Height        int
	ImagePix      []byte

	// MaskPix 作为源引导，InverseMaskPix 作为目标引导，只有非空洞像素参与搜索
	MaskPix        []byte
	MaskWidth      int
	MaskHeight     int
	InverseMaskPix []byte

	ImageWeights []float32
	MaskWeights  []float32

	Uniformity   float32
	PatchSize    int
	VoteMode     VoteMode
	Plan         Plan
	Schedule     Schedule
	Extra3x3Pass bool
}

// Levels 实际使用的金字塔层数
func (r *Request) Levels() int {
	return r.Plan.Levels
}

// OutputLen 输出缓冲区的字节数
func (r *Request) OutputLen() int {
	return r.Width * r.Height * r.ImageChannels
}

// NewRequest 校验输入并组装后端请求
//
// 所有校验都在分配缓冲区之前完成。
func NewRequest(image, mask Image, kind BackendKind, opts Options) (*Request, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := image.Validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if err := mask.Validate(); err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if image.Width != mask.Width || image.Height != mask.Height {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrShapeMismatch, image.Width, image.Height, mask.Width, mask.Height)
	}

	imageWeights, maskWeights, err := NormalizeWeights(image.Channels, mask.Channels, opts.MaskImportance)
	if err != nil {
		return nil, err
	}

	plan, err := PlanPyramid(image.Width, image.Height, opts.PatchSize, opts.PyramidLevels)
	if err != nil {
		return nil, err
	}

	schedule, err := buildSchedule(opts, plan.Levels)
	if err != nil {
		return nil, err
	}

	return &Request{
		Kind:           kind,
		ImageChannels:  image.Channels,
		MaskChannels:   mask.Channels,
		Width:          image.Width,
		Height:         image.Height,
		ImagePix:       image.Pix,
		MaskPix:        mask.Pix,
		MaskWidth:      mask.Width,
		MaskHeight:     mask.Height,
		InverseMaskPix: Invert(mask.Pix),
		ImageWeights:   imageWeights,
		MaskWeights:    maskWeights,
		Uniformity:     opts.Uniformity,
		PatchSize:      opts.PatchSize,
		VoteMode:       opts.VoteMode,
		Plan:           plan,
		Schedule:       schedule,
		Extra3x3Pass:   opts.Extra3x3Pass,
	}, nil
}

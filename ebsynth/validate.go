package ebsynth

import (
	"fmt"

	"github.com/TIANLI0/InpaintKit/patchmatch"
)

// 原生库支持的最大通道数
const (
	MaxStyleChannels = 8
	MaxGuideChannels = 24
)

// checkRequest 在进入原生代码前检查缓冲区与上限，越界访问在原生侧是未定义行为
func checkRequest(req *patchmatch.Request, out []byte) error {
	if req == nil {
		return fmt.Errorf("ebsynth: nil request")
	}
	if req.ImageChannels > MaxStyleChannels {
		return fmt.Errorf("ebsynth: too many style channels (%d), maximum number is %d", req.ImageChannels, MaxStyleChannels)
	}
	if req.MaskChannels > MaxGuideChannels {
		return fmt.Errorf("ebsynth: too many guide channels (%d), maximum number is %d", req.MaskChannels, MaxGuideChannels)
	}
	if len(out) != req.OutputLen() || len(req.ImagePix) != req.OutputLen() {
		return fmt.Errorf("ebsynth: buffer length mismatch: image %d, output %d, want %d", len(req.ImagePix), len(out), req.OutputLen())
	}
	guideLen := req.MaskWidth * req.MaskHeight * req.MaskChannels
	if len(req.MaskPix) != guideLen || len(req.InverseMaskPix) != guideLen {
		return fmt.Errorf("ebsynth: guide buffer length mismatch: mask %d, inverse %d, want %d", len(req.MaskPix), len(req.InverseMaskPix), guideLen)
	}
	if len(req.ImageWeights) != req.ImageChannels || len(req.MaskWeights) != req.MaskChannels {
		return fmt.Errorf("ebsynth: weight count mismatch")
	}
	levels := req.Levels()
	if levels < 1 {
		return fmt.Errorf("ebsynth: %d pyramid levels", levels)
	}
	s := req.Schedule
	if len(s.SearchVoteIters) != levels || len(s.PatchMatchIters) != levels || len(s.StopThreshold) != levels {
		return fmt.Errorf("ebsynth: per-level schedule length does not match %d levels", levels)
	}
	return nil
}

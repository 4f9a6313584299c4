//go:build ebsynth && cgo

package ebsynth

/*
#cgo LDFLAGS: -lebsynth
#cgo linux LDFLAGS: -lstdc++ -lm

void ebsynthRun(int ebsynthBackend,
                int numStyleChannels,
                int numGuideChannels,
                int sourceWidth,
                int sourceHeight,
                void* sourceStyleData,
                void* sourceGuideData,
                int targetWidth,
                int targetHeight,
                void* targetGuideData,
                void* targetModulationData,
                float* styleWeights,
                float* guideWeights,
                float uniformityWeight,
                int patchSize,
                int voteMode,
                int numPyramidLevels,
                int* numSearchVoteItersPerLevel,
                int* numPatchMatchItersPerLevel,
                int* stopThresholdPerLevel,
                int extraPass3x3,
                void* outputNnfData,
                void* outputImageData);

int ebsynthBackendAvailable(int ebsynthBackend);
*/
import "C"

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/TIANLI0/InpaintKit/patchmatch"
)

func Enabled() bool { return true }

// Backend 可被并发使用，原生调用串行执行
type Backend struct {
	mu sync.Mutex
}

func New() *Backend { return &Backend{} }

func (b *Backend) Available(kind patchmatch.BackendKind) bool {
	return C.ebsynthBackendAvailable(C.int(kind)) == 1
}

func toCInts(v []int) []C.int {
	out := make([]C.int, len(v))
	for i, x := range v {
		out[i] = C.int(x)
	}
	return out
}

func boolToC(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

func (b *Backend) Run(req *patchmatch.Request, out []byte) error {
	if err := checkRequest(req, out); err != nil {
		return err
	}

	searchVote := toCInts(req.Schedule.SearchVoteIters)
	patchMatch := toCInts(req.Schedule.PatchMatchIters)
	stop := toCInts(req.Schedule.StopThreshold)

	b.mu.Lock()
	defer b.mu.Unlock()

	C.ebsynthRun(
		C.int(req.Kind),
		C.int(req.ImageChannels),
		C.int(req.MaskChannels),
		C.int(req.Width),
		C.int(req.Height),
		unsafe.Pointer(&req.ImagePix[0]),
		unsafe.Pointer(&req.MaskPix[0]),
		C.int(req.MaskWidth),
		C.int(req.MaskHeight),
		unsafe.Pointer(&req.InverseMaskPix[0]),
		nil,
		(*C.float)(unsafe.Pointer(&req.ImageWeights[0])),
		(*C.float)(unsafe.Pointer(&req.MaskWeights[0])),
		C.float(req.Uniformity),
		C.int(req.PatchSize),
		C.int(req.VoteMode),
		C.int(req.Levels()),
		&searchVote[0],
		&patchMatch[0],
		&stop[0],
		boolToC(req.Extra3x3Pass),
		nil,
		unsafe.Pointer(&out[0]),
	)

	runtime.KeepAlive(req)
	runtime.KeepAlive(out)
	return nil
}

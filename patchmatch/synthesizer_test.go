package patchmatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	available  bool
	queried    []BackendKind
	runCalls   int
	lastReq    *Request
	fill       func(out []byte)
	runErr     error
	writeOnErr bool
}

func (f *fakeBackend) Available(kind BackendKind) bool {
	f.queried = append(f.queried, kind)
	return f.available
}

func (f *fakeBackend) Run(req *Request, out []byte) error {
	f.runCalls++
	f.lastReq = req
	if f.runErr != nil {
		if f.writeOnErr {
			for i := range out {
				out[i] = 0xEE
			}
		}
		return f.runErr
	}
	if f.fill != nil {
		f.fill(out)
	}
	return nil
}

func patternFill(out []byte) {
	for i := range out {
		out[i] = byte(i*31 + 7)
	}
}

func testImage(w, h, c int) Image {
	img := NewImage(w, h, c)
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	return img
}

func TestSynthesize_BackendUnavailable(t *testing.T) {
	backend := &fakeBackend{available: false}
	s := NewSynthesizer(backend)

	out, err := s.Synthesize(testImage(64, 64, 3), NewImage(64, 64, 1), DefaultOptions())
	require.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Nil(t, out.Pix)
	assert.Equal(t, 0, backend.runCalls)
	assert.Equal(t, []BackendKind{BackendCUDA}, backend.queried)
}

func TestSynthesize_NilBackend(t *testing.T) {
	s := NewSynthesizer(nil)
	_, err := s.Synthesize(testImage(16, 16, 1), NewImage(16, 16, 1), DefaultOptions())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestSynthesize_GateRunsBeforeValidation(t *testing.T) {
	backend := &fakeBackend{available: false}
	s := NewSynthesizer(backend)

	_, err := s.Synthesize(Image{}, Image{}, Options{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestSynthesize_ReshapesBackendOutput(t *testing.T) {
	backend := &fakeBackend{available: true, fill: patternFill}
	s := NewSynthesizer(backend)

	image := testImage(40, 24, 3)
	out, err := s.Synthesize(image, NewImage(40, 24, 1), DefaultOptions())
	require.NoError(t, err)

	h, w, c := out.Shape()
	assert.Equal(t, 24, h)
	assert.Equal(t, 40, w)
	assert.Equal(t, 3, c)

	want := make([]byte, 40*24*3)
	patternFill(want)
	assert.Equal(t, want, out.Pix)
	assert.Equal(t, want[(5*40+9)*3+2], out.At(9, 5, 2))
	assert.Equal(t, 1, backend.runCalls)
}

func TestSynthesize_NoHoleScenario(t *testing.T) {
	backend := &fakeBackend{available: true, fill: patternFill}
	s := NewSynthesizer(backend)

	_, err := s.Synthesize(testImage(64, 64, 3), NewImage(64, 64, 1), DefaultOptions())
	require.NoError(t, err)

	req := backend.lastReq
	require.NotNil(t, req)
	assert.Equal(t, 3, req.Plan.MaxLevels)
	assert.Equal(t, 3, req.Levels())
	assert.Equal(t, []int{6, 6, 6}, req.Schedule.SearchVoteIters)
	assert.Equal(t, []int{4, 4, 4}, req.Schedule.PatchMatchIters)
	assert.Equal(t, []int{1, 1, 1}, req.Schedule.StopThreshold)
}

func TestSynthesize_RequestContents(t *testing.T) {
	backend := &fakeBackend{available: true}
	s := NewSynthesizer(backend, WithBackendKind(BackendCPU))

	image := testImage(32, 20, 4)
	mask := NewImage(32, 20, 2)
	mask.Set(3, 4, 0, 255)
	mask.Set(3, 4, 1, 255)

	opts := DefaultOptions()
	opts.MaskImportance = 4
	opts.Uniformity = 1200
	opts.PatchSize = 3
	opts.PyramidLevels = 2
	opts.Extra3x3Pass = true
	opts.VoteMode = VotePlain
	opts.PatchMatchItersPerLevel = []int{9, 2}

	_, err := s.Synthesize(image, mask, opts)
	require.NoError(t, err)

	req := backend.lastReq
	assert.Equal(t, BackendCPU, req.Kind)
	assert.Equal(t, []BackendKind{BackendCPU}, backend.queried)
	assert.Equal(t, 4, req.ImageChannels)
	assert.Equal(t, 2, req.MaskChannels)
	assert.Equal(t, 32, req.Width)
	assert.Equal(t, 20, req.Height)
	assert.Equal(t, 32, req.MaskWidth)
	assert.Equal(t, 20, req.MaskHeight)
	assert.Equal(t, image.Pix, req.ImagePix)
	assert.Equal(t, mask.Pix, req.MaskPix)
	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, req.ImageWeights)
	assert.Equal(t, []float32{2, 2}, req.MaskWeights)
	assert.Equal(t, float32(1200), req.Uniformity)
	assert.Equal(t, 3, req.PatchSize)
	assert.Equal(t, VotePlain, req.VoteMode)
	assert.Equal(t, 2, req.Levels())
	assert.Equal(t, []int{9, 2}, req.Schedule.PatchMatchIters)
	assert.Equal(t, []int{6, 6}, req.Schedule.SearchVoteIters)
	assert.True(t, req.Extra3x3Pass)

	require.Len(t, req.InverseMaskPix, len(mask.Pix))
	for i, b := range mask.Pix {
		assert.Equal(t, ^b, req.InverseMaskPix[i])
	}
	assert.Equal(t, byte(0), req.InverseMaskPix[(4*32+3)*2])
	assert.Equal(t, byte(255), req.InverseMaskPix[0])
}

func TestSynthesize_InputErrorsSkipBackend(t *testing.T) {
	tests := []struct {
		name  string
		image Image
		mask  Image
		opts  func(*Options)
		want  error
	}{
		{"zero image channels", Image{Width: 8, Height: 8}, NewImage(8, 8, 1), nil, ErrInvalidChannelCount},
		{"zero mask channels", testImage(16, 16, 3), Image{Width: 16, Height: 16}, nil, ErrInvalidChannelCount},
		{"short buffer", Image{Width: 16, Height: 16, Channels: 3, Pix: make([]byte, 10)}, NewImage(16, 16, 1), nil, ErrInvalidImage},
		{"shape mismatch", testImage(16, 16, 3), NewImage(16, 15, 1), nil, ErrShapeMismatch},
		{"too shallow", testImage(10, 10, 3), NewImage(10, 10, 1), nil, ErrPyramidTooShallow},
		{"even patch", testImage(16, 16, 3), NewImage(16, 16, 1), func(o *Options) { o.PatchSize = 2 }, ErrInvalidOptions},
		{"schedule length", testImage(64, 64, 3), NewImage(64, 64, 1), func(o *Options) { o.StopThresholdPerLevel = []int{1} }, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{available: true}
			s := NewSynthesizer(backend)
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			_, err := s.Synthesize(tt.image, tt.mask, opts)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsInputError(err))
			assert.Equal(t, 0, backend.runCalls)
		})
	}
}

func TestSynthesize_BackendFailureReturnsNoBuffer(t *testing.T) {
	cause := errors.New("device lost")
	backend := &fakeBackend{available: true, runErr: cause, writeOnErr: true}
	s := NewSynthesizer(backend)

	out, err := s.Synthesize(testImage(32, 32, 3), NewImage(32, 32, 1), DefaultOptions())
	require.ErrorIs(t, err, ErrBackendExecution)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsInputError(err))
	assert.Nil(t, out.Pix)
	assert.Equal(t, 1, backend.runCalls)
}

func TestSynthesize_FreshBuffersPerCall(t *testing.T) {
	backend := &fakeBackend{available: true, fill: patternFill}
	s := NewSynthesizer(backend)

	image := testImage(16, 16, 1)
	mask := NewImage(16, 16, 1)
	first, err := s.Synthesize(image, mask, DefaultOptions())
	require.NoError(t, err)
	firstReq := backend.lastReq

	second, err := s.Synthesize(image, mask, DefaultOptions())
	require.NoError(t, err)

	first.Pix[0] ^= 0xFF
	assert.NotEqual(t, first.Pix[0], second.Pix[0])
	assert.NotSame(t, firstReq, backend.lastReq)
	assert.NotSame(t, &firstReq.ImageWeights[0], &backend.lastReq.ImageWeights[0])
}

func TestSynthesize_ChannelLimits(t *testing.T) {
	backend := &fakeBackend{available: true, fill: patternFill}
	s := NewSynthesizer(backend, WithChannelLimits(8, 24))

	_, err := s.Synthesize(testImage(32, 32, 9), NewImage(32, 32, 1), DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidChannelCount)
	assert.True(t, IsInputError(err))

	_, err = s.Synthesize(testImage(32, 32, 3), NewImage(32, 32, 25), DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidChannelCount)
	assert.Equal(t, 0, backend.runCalls)

	out, err := s.Synthesize(testImage(32, 32, 8), NewImage(32, 32, 24), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, out.Channels)
	assert.Equal(t, 1, backend.runCalls)
}

func TestSynthesizeWithPlan_ReturnsRequestPlan(t *testing.T) {
	backend := &fakeBackend{available: true, fill: patternFill}
	s := NewSynthesizer(backend)

	opts := DefaultOptions()
	opts.PyramidLevels = 2
	_, plan, err := s.SynthesizeWithPlan(testImage(64, 64, 3), NewImage(64, 64, 1), opts)
	require.NoError(t, err)
	assert.Equal(t, Plan{MaxLevels: 3, Levels: 2}, plan)
	assert.Equal(t, backend.lastReq.Plan, plan)

	backend.runErr = errors.New("device lost")
	_, plan, err = s.SynthesizeWithPlan(testImage(64, 64, 3), NewImage(64, 64, 1), opts)
	require.ErrorIs(t, err, ErrBackendExecution)
	assert.Equal(t, Plan{}, plan)
}

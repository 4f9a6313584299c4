package ebsynth

import (
	"testing"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, w, h, c int) (*patchmatch.Request, []byte) {
	t.Helper()
	req, err := patchmatch.NewRequest(patchmatch.NewImage(w, h, c), patchmatch.NewImage(w, h, 1),
		patchmatch.BackendCUDA, patchmatch.DefaultOptions())
	require.NoError(t, err)
	return req, make([]byte, req.OutputLen())
}

func TestCheckRequest_OK(t *testing.T) {
	req, out := newTestRequest(t, 64, 48, 3)
	assert.NoError(t, checkRequest(req, out))
}

func TestCheckRequest_TooManyStyleChannels(t *testing.T) {
	req, out := newTestRequest(t, 32, 32, MaxStyleChannels+1)
	assert.ErrorContains(t, checkRequest(req, out), "too many style channels")
}

func TestCheckRequest_OutputLength(t *testing.T) {
	req, out := newTestRequest(t, 32, 32, 3)
	assert.Error(t, checkRequest(req, out[:len(out)-1]))
}

func TestCheckRequest_ScheduleLength(t *testing.T) {
	req, out := newTestRequest(t, 32, 32, 3)
	req.Schedule.StopThreshold = req.Schedule.StopThreshold[:1]
	assert.ErrorContains(t, checkRequest(req, out), "schedule")
}

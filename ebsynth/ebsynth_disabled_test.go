//go:build !ebsynth

package ebsynth

import (
	"testing"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	assert.False(t, Enabled())

	b := New()
	for _, kind := range []patchmatch.BackendKind{patchmatch.BackendAuto, patchmatch.BackendCPU, patchmatch.BackendCUDA} {
		assert.False(t, b.Available(kind), kind.String())
	}
}

func TestDisabled_SynthesizeFailsCleanly(t *testing.T) {
	s := patchmatch.NewSynthesizer(New())
	_, err := s.Synthesize(patchmatch.NewImage(32, 32, 3), patchmatch.NewImage(32, 32, 1), patchmatch.DefaultOptions())
	require.ErrorIs(t, err, patchmatch.ErrBackendUnavailable)
}

func TestDisabled_Run(t *testing.T) {
	req, out := newTestRequest(t, 32, 32, 3)
	assert.ErrorIs(t, New().Run(req, out), errDisabled)
}

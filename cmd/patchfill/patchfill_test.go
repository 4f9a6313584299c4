package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/ebsynth"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRunFlags(t *testing.T, args ...string) func() (patchmatch.Options, patchmatch.BackendKind, error) {
	t.Helper()
	f := &runFlags{}
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	bindRunFlags(fs, f)
	require.NoError(t, fs.Parse(args))
	return func() (patchmatch.Options, patchmatch.BackendKind, error) {
		return resolveOptions(fs, f, config.New())
	}
}

func TestResolveOptions_Defaults(t *testing.T) {
	resolve := parseRunFlags(t)
	opts, kind, err := resolve()
	require.NoError(t, err)
	assert.Equal(t, patchmatch.DefaultOptions(), opts)
	assert.Equal(t, patchmatch.BackendCUDA, kind)
}

func TestResolveOptions_Overrides(t *testing.T) {
	resolve := parseRunFlags(t,
		"--weight", "2.5",
		"--uniformity", "1000",
		"--patchsize", "7",
		"--pyramidlevels", "4",
		"--searchvoteiters", "3",
		"--patchmatchiters", "2",
		"--stopthreshold", "0",
		"--extrapass3x3",
		"--backend", "cpu",
		"--votemode", "plain")
	opts, kind, err := resolve()
	require.NoError(t, err)

	assert.Equal(t, float32(2.5), opts.MaskImportance)
	assert.Equal(t, float32(1000), opts.Uniformity)
	assert.Equal(t, 7, opts.PatchSize)
	assert.Equal(t, 4, opts.PyramidLevels)
	assert.Equal(t, 3, opts.SearchVoteIters)
	assert.Equal(t, 2, opts.PatchMatchIters)
	assert.Equal(t, 0, opts.StopThreshold)
	assert.True(t, opts.Extra3x3Pass)
	assert.Equal(t, patchmatch.VotePlain, opts.VoteMode)
	assert.Equal(t, patchmatch.BackendCPU, kind)
}

func TestResolveOptions_Rejects(t *testing.T) {
	tests := [][]string{
		{"--patchsize", "1"},
		{"--patchsize", "6"},
		{"--pyramidlevels", "0"},
		{"--searchvoteiters", "-1"},
		{"--stopthreshold", "-2"},
		{"--backend", "opencl"},
		{"--backend", "auto"},
		{"--votemode", "median"},
	}
	for _, args := range tests {
		t.Run(args[0]+"="+args[1], func(t *testing.T) {
			resolve := parseRunFlags(t, args...)
			_, _, err := resolve()
			assert.Error(t, err)
		})
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "albedo_inpainted.png", outputName("albedo.png"))
	assert.Equal(t, filepath.Join("maps", "normal.v2_inpainted.png"), outputName(filepath.Join("maps", "normal.v2.tif")))
	assert.Equal(t, "rough_inpainted.png", outputName("rough"))
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPlan(&buf, 64, 64, 5, patchmatch.AutoLevels))
	assert.Equal(t, "maxlevels: 3\npyramidlevels: 3\nlevel 0: 64x64\nlevel 1: 32x32\nlevel 2: 16x16\n", buf.String())

	buf.Reset()
	require.NoError(t, printPlan(&buf, 640, 480, 5, 2))
	assert.Contains(t, buf.String(), "maxlevels: 6\npyramidlevels: 2\n")

	assert.ErrorIs(t, printPlan(&buf, 8, 8, 5, patchmatch.AutoLevels), patchmatch.ErrPyramidTooShallow)
	assert.ErrorIs(t, printPlan(&buf, 0, 8, 5, patchmatch.AutoLevels), patchmatch.ErrInvalidOptions)
}

func TestRunInpaint_BackendUnavailable(t *testing.T) {
	if ebsynth.Enabled() {
		t.Skip("native backend linked")
	}
	root := newRootCmd()
	root.SetArgs([]string{"run", "--albedo", "missing.png", "--mask", "missing_mask.png"})
	err := root.Execute()
	assert.ErrorIs(t, err, patchmatch.ErrBackendUnavailable)
}

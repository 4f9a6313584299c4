//go:build !ebsynth

package ebsynth

import (
	"errors"

	"github.com/TIANLI0/InpaintKit/patchmatch"
)

var errDisabled = errors.New("ebsynth: disabled (build with -tags ebsynth and CGO_ENABLED=1)")

// Enabled 当前构建是否链接了原生库
func Enabled() bool { return false }

type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Available(kind patchmatch.BackendKind) bool { return false }

func (b *Backend) Run(req *patchmatch.Request, out []byte) error {
	if err := checkRequest(req, out); err != nil {
		return err
	}
	return errDisabled
}

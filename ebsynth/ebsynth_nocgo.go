//go:build ebsynth && !cgo

package ebsynth

import (
	"errors"

	"github.com/TIANLI0/InpaintKit/patchmatch"
)

var errNoCGO = errors.New("ebsynth: ebsynth tag set but CGO is disabled (set CGO_ENABLED=1)")

func Enabled() bool { return false }

type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Available(kind patchmatch.BackendKind) bool { return false }

func (b *Backend) Run(req *patchmatch.Request, out []byte) error {
	return errNoCGO
}

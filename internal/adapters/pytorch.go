package adapters

import (
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// pytorchAdapter serves TorchScript-style serialized models (.pt/.pth)
// through an injected runtime.
type pytorchAdapter struct {
	rt Runtime
}

// NewPyTorchAdapter builds the pytorch-like adapter. A nil runtime yields an
// adapter whose Load reports the runtime as unavailable.
func NewPyTorchAdapter(rt Runtime) Adapter {
	return &pytorchAdapter{rt: rt}
}

func (a *pytorchAdapter) Framework() types.Framework { return types.FrameworkPyTorch }

func (a *pytorchAdapter) CanHandle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pt", ".pth":
		return true
	}
	return false
}

func (a *pytorchAdapter) Load(path string) (Handle, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	h, err := a.rt.Load(path)
	if err != nil {
		return nil, NewLoadError(a.Framework(), err)
	}
	return h, nil
}

func (a *pytorchAdapter) Predict(h Handle, input any) (any, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	coerced, err := coerceNumeric(input)
	if err != nil {
		return nil, err
	}
	return a.rt.Predict(h, coerced)
}

// Torch modules flip eval/grad state around a forward pass; do not allow
// overlapping calls on one handle.
func (a *pytorchAdapter) ConcurrentSafe() bool { return false }

package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// tensorflowAdapter serves Keras .h5 files and SavedModel directories through
// an injected runtime.
type tensorflowAdapter struct {
	rt Runtime
}

// NewTensorFlowAdapter builds the tensorflow-like adapter. A nil runtime
// yields an adapter whose Load reports the runtime as unavailable.
func NewTensorFlowAdapter(rt Runtime) Adapter {
	return &tensorflowAdapter{rt: rt}
}

func (a *tensorflowAdapter) Framework() types.Framework { return types.FrameworkTensorFlow }

func (a *tensorflowAdapter) CanHandle(path string) bool {
	if strings.ToLower(filepath.Ext(path)) == ".h5" {
		return true
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		if _, err := os.Stat(filepath.Join(path, tfSavedModelMarker)); err == nil {
			return true
		}
	}
	return false
}

func (a *tensorflowAdapter) Load(path string) (Handle, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	h, err := a.rt.Load(path)
	if err != nil {
		return nil, NewLoadError(a.Framework(), err)
	}
	return h, nil
}

func (a *tensorflowAdapter) Predict(h Handle, input any) (any, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	coerced, err := coerceNumeric(input)
	if err != nil {
		return nil, err
	}
	return a.rt.Predict(h, coerced)
}

func (a *tensorflowAdapter) ConcurrentSafe() bool { return true }

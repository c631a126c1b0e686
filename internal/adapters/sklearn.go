package adapters

import (
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// sklearnAdapter serves pickled scikit-learn style models. Its predict path
// carries the text-vs-numeric input branching: a pipeline whose first stage
// is a vectorizer receives raw strings, everything else a numeric array.
type sklearnAdapter struct {
	rt Runtime
}

// NewSklearnAdapter builds the sklearn-like adapter. A nil runtime yields an
// adapter whose Load reports the runtime as unavailable.
func NewSklearnAdapter(rt Runtime) Adapter {
	return &sklearnAdapter{rt: rt}
}

func (a *sklearnAdapter) Framework() types.Framework { return types.FrameworkSklearn }

func (a *sklearnAdapter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pkl"
}

func (a *sklearnAdapter) Load(path string) (Handle, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	h, err := a.rt.Load(path)
	if err != nil {
		return nil, NewLoadError(a.Framework(), err)
	}
	return h, nil
}

func (a *sklearnAdapter) Predict(h Handle, input any) (any, error) {
	if a.rt == nil {
		return nil, errRuntimeUnavailable(a.Framework())
	}
	coerced, err := coerceSklearnInput(input)
	if err != nil {
		return nil, err
	}
	return a.rt.Predict(h, coerced)
}

func (a *sklearnAdapter) ConcurrentSafe() bool { return true }

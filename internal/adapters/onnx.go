package adapters

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/mat"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// onnxAdapter serves .onnx files through onnxruntime. Unlike the other
// built-ins it ships a working runtime: sessions are created from the model's
// own input/output metadata and fed float32 tensors.
type onnxAdapter struct {
	rt Runtime
}

// NewONNXAdapter builds the onnx-like adapter with the onnxruntime backend.
func NewONNXAdapter() Adapter {
	return &onnxAdapter{rt: &ortRuntime{}}
}

// NewONNXAdapterWithRuntime overrides the backend, for builds and tests
// without the onnxruntime shared library.
func NewONNXAdapterWithRuntime(rt Runtime) Adapter {
	return &onnxAdapter{rt: rt}
}

func (a *onnxAdapter) Framework() types.Framework { return types.FrameworkONNX }

func (a *onnxAdapter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".onnx"
}

func (a *onnxAdapter) Load(path string) (Handle, error) {
	h, err := a.rt.Load(path)
	if err != nil {
		return nil, NewLoadError(a.Framework(), err)
	}
	return h, nil
}

func (a *onnxAdapter) Predict(h Handle, input any) (any, error) {
	coerced, err := coerceNumeric(input)
	if err != nil {
		return nil, err
	}
	return a.rt.Predict(h, coerced)
}

// One session handle must not run overlapping inferences; the engine
// serializes calls on it.
func (a *onnxAdapter) ConcurrentSafe() bool { return false }

// ortInitOnce guards process-wide onnxruntime environment setup.
var ortInitOnce sync.Once

// ortRuntime is the onnxruntime-backed Runtime.
type ortRuntime struct{}

// ortHandle pairs a dynamic session with the names it was built from.
type ortHandle struct {
	session     *ort.DynamicAdvancedSession
	inputNames  []string
	outputNames []string
}

func (r *ortRuntime) Load(path string) (Handle, error) {
	var initErr error
	ortInitOnce.Do(func() {
		if !ort.IsInitialized() {
			initErr = ort.InitializeEnvironment()
		}
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", initErr)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model declares %d inputs and %d outputs", len(inputs), len(outputs))
	}
	inNames := make([]string, len(inputs))
	for i, in := range inputs {
		inNames[i] = in.Name
	}
	outNames := make([]string, len(outputs))
	for i, out := range outputs {
		outNames[i] = out.Name
	}
	session, err := ort.NewDynamicAdvancedSession(path, inNames, outNames, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &ortHandle{session: session, inputNames: inNames, outputNames: outNames}, nil
}

func (r *ortRuntime) Predict(h Handle, input any) (any, error) {
	oh, ok := h.(*ortHandle)
	if !ok {
		return nil, fmt.Errorf("handle is %T, not an onnx session", h)
	}
	shape, data, err := tensorData(input)
	if err != nil {
		return nil, err
	}
	in, err := ort.NewTensor(ort.NewShape(shape...), data)
	if err != nil {
		return nil, fmt.Errorf("build input tensor: %w", err)
	}
	defer in.Destroy()

	// Nil outputs are allocated by the runtime from the model's metadata.
	outs := make([]ort.Value, len(oh.outputNames))
	if err := oh.session.Run([]ort.Value{in}, outs); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	defer func() {
		for _, o := range outs {
			if o != nil {
				o.Destroy()
			}
		}
	}()
	out, ok := outs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unsupported output type %T", outs[0])
	}
	return tensorResult(out), nil
}

// tensorData flattens a coerced numeric container into shape + float32 data.
func tensorData(input any) ([]int64, []float32, error) {
	switch v := input.(type) {
	case *mat.Dense:
		r, c := v.Dims()
		data := make([]float32, 0, r*c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				data = append(data, float32(v.At(i, j)))
			}
		}
		return []int64{int64(r), int64(c)}, data, nil
	case []float64:
		data := make([]float32, len(v))
		for i, f := range v {
			data[i] = float32(f)
		}
		return []int64{1, int64(len(v))}, data, nil
	case []float32:
		return []int64{1, int64(len(v))}, v, nil
	default:
		return nil, nil, fmt.Errorf("cannot feed %T to an onnx session", input)
	}
}

// tensorResult converts the first output tensor back into the numeric
// container the normalizer understands: a matrix for 2-D outputs, a flat
// float64 slice otherwise.
func tensorResult(t *ort.Tensor[float32]) any {
	shape := t.GetShape()
	data := t.GetData()
	if len(shape) == 2 {
		r, c := int(shape[0]), int(shape[1])
		if r*c == len(data) {
			out := make([]float64, len(data))
			for i, f := range data {
				out[i] = float64(f)
			}
			return mat.NewDense(r, c, out)
		}
	}
	out := make([]float64, len(data))
	for i, f := range data {
		out[i] = float64(f)
	}
	return out
}

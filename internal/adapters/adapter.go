// Package adapters implements the built-in framework integrations: one
// adapter per supported serialized-model format, each exposing the narrow
// load/predict contract the resolution engine dispatches through, plus
// suffix/marker auto-detection.
package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// Handle is an opaque loaded-model reference owned by the session.
type Handle any

// Runtime executes a framework's native load and predict. The built-in ONNX
// adapter ships a real runtime; the other frameworks accept an injected one
// and fail with an adapter-load error when none is linked.
type Runtime interface {
	Load(path string) (Handle, error)
	Predict(h Handle, input any) (any, error)
}

// Adapter is one built-in framework integration.
type Adapter interface {
	// Framework returns the tag this adapter serves.
	Framework() types.Framework
	// CanHandle reports whether the artifact at path looks like this
	// adapter's format (extension or directory-shape sniff).
	CanHandle(path string) bool
	// Load opens the artifact and returns an opaque handle.
	Load(path string) (Handle, error)
	// Predict runs inference on a handle produced by Load.
	Predict(h Handle, input any) (any, error)
	// ConcurrentSafe reports whether Predict may be called concurrently on
	// one handle. When false the engine serializes calls on the handle.
	ConcurrentSafe() bool
}

// tfSavedModelMarker identifies a TensorFlow SavedModel directory.
const tfSavedModelMarker = "saved_model.pb"

// suffixTable maps model-file extensions to framework tags.
var suffixTable = map[string]types.Framework{
	".pt":   types.FrameworkPyTorch,
	".pth":  types.FrameworkPyTorch,
	".h5":   types.FrameworkTensorFlow,
	".onnx": types.FrameworkONNX,
	".pkl":  types.FrameworkSklearn,
}

// ModelSuffixes returns the recognized model-file extensions in the order the
// engine searches a directory for an unpinned model file.
func ModelSuffixes() []string {
	return []string{".pkl", ".pt", ".pth", ".h5", ".onnx"}
}

// Detect identifies the framework for the artifact at path from its file
// suffix, or from a marker file when path is a directory.
func Detect(path string) (types.Framework, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if fw, ok := suffixTable[ext]; ok {
			return fw, nil
		}
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		if _, err := os.Stat(filepath.Join(path, tfSavedModelMarker)); err == nil {
			return types.FrameworkTensorFlow, nil
		}
	}
	return "", undetectedError{path: path}
}

// BuiltinSet returns the four built-in adapters with their default runtimes.
func BuiltinSet() []Adapter {
	return []Adapter{
		NewPyTorchAdapter(nil),
		NewTensorFlowAdapter(nil),
		NewONNXAdapter(),
		NewSklearnAdapter(nil),
	}
}

// ForFramework selects the adapter serving fw from set, or nil.
func ForFramework(set []Adapter, fw types.Framework) Adapter {
	for _, a := range set {
		if a.Framework() == fw {
			return a
		}
	}
	return nil
}

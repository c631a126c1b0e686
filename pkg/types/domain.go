package types

// Framework identifies which predict path a loaded model uses.
type Framework string

const (
	FrameworkPyTorch    Framework = "pytorch"
	FrameworkTensorFlow Framework = "tensorflow"
	FrameworkONNX       Framework = "onnx"
	FrameworkSklearn    Framework = "sklearn"
	FrameworkCustom     Framework = "custom"
)

// Frameworks lists every valid framework tag, in detection order.
func Frameworks() []Framework {
	return []Framework{
		FrameworkPyTorch,
		FrameworkTensorFlow,
		FrameworkONNX,
		FrameworkSklearn,
		FrameworkCustom,
	}
}

// Valid reports whether f is one of the known framework tags.
func (f Framework) Valid() bool {
	switch f {
	case FrameworkPyTorch, FrameworkTensorFlow, FrameworkONNX, FrameworkSklearn, FrameworkCustom:
		return true
	}
	return false
}

// TraceOutcome classifies the result of one resolution strategy attempt.
type TraceOutcome string

const (
	OutcomeSucceeded TraceOutcome = "succeeded"
	OutcomeFailed    TraceOutcome = "failed"
	OutcomeSkipped   TraceOutcome = "skipped"
)

// TraceEntry records one attempted load/predict strategy for diagnostics.
type TraceEntry struct {
	// Strategy name (e.g. "manifest", "custom-script", "heuristic", "builtin").
	Strategy string `json:"strategy"`
	// Outcome of the attempt.
	Outcome TraceOutcome `json:"outcome"`
	// Human-readable reason for a failure or skip.
	Reason string `json:"reason,omitempty"`
}

// FileEntry describes one observed file inside a model directory.
type FileEntry struct {
	// Path relative to the model directory root.
	Path string `json:"path"`
	// Size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// LoadOutcome summarizes a completed load resolution.
type LoadOutcome struct {
	// OpID is the unique id assigned to this load attempt.
	OpID string `json:"op_id"`
	// Framework tag selected by the winning strategy.
	Framework Framework `json:"framework"`
	// ModelID is the path or identifier of the loaded artifact.
	ModelID string `json:"model_id"`
	// Strategy that won the resolution.
	Strategy string `json:"strategy"`
	// Trace of every strategy attempted, in order.
	Trace []TraceEntry `json:"trace"`
}

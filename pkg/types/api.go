package types

// PredictRequest is the body accepted by POST /predict.
type PredictRequest struct {
	// Input is an arbitrary JSON value forwarded to the model: a string for
	// text pipelines, a nested array for tabular/tensor models, or any shape
	// a custom entry point accepts.
	// example: [[5.1,3.5,1.4,0.2]]
	Input any `json:"input"`
}

// PredictResponse wraps a normalized prediction.
type PredictResponse struct {
	// Prediction is the normalized, JSON-serializable model output.
	Prediction any `json:"prediction"`
	// ModelID identifies the loaded artifact.
	// example: /models/movie-sentiment
	ModelID string `json:"model_id"`
	// Framework that served the prediction.
	// example: sklearn
	Framework string `json:"framework"`
	// Metadata carries per-call extras such as inference_time_ms.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not loaded
	Error string `json:"error" example:"model not loaded"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded reports whether a model is ready to serve predictions.
	// example: true
	Loaded bool `json:"loaded"`
	// Framework tag of the loaded model, empty when unloaded.
	// example: sklearn
	Framework string `json:"framework,omitempty" example:"sklearn"`
	// ModelID of the loaded artifact, empty when unloaded.
	ModelID string `json:"model_id,omitempty"`
	// Strategy that loaded the model (manifest, custom-script, heuristic, builtin).
	Strategy string `json:"strategy,omitempty"`
	// LastError is the most recent fatal load error, retained for debugging.
	LastError string `json:"last_error,omitempty"`
	// Total number of successful model loads since start.
	// example: 1
	LoadsTotal uint64 `json:"loads_total"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix"`
	// Host memory in use, in MB (0 when unavailable).
	// example: 2048
	HostMemUsedMB uint64 `json:"host_mem_used_mb,omitempty"`
	// Host memory total, in MB (0 when unavailable).
	// example: 16384
	HostMemTotalMB uint64 `json:"host_mem_total_mb,omitempty"`
}

// InfoResponse is returned by GET /info for a loaded model.
type InfoResponse struct {
	// ModelID of the loaded artifact.
	ModelID string `json:"model_id"`
	// Framework serving the model.
	// example: custom
	Framework string `json:"framework"`
	// Status is always "ready" when this endpoint returns 200.
	// example: ready
	Status string `json:"status"`
	// Name from the manifest, when one was used.
	Name string `json:"name,omitempty"`
	// Version from the manifest, when one was used.
	Version string `json:"version,omitempty"`
	// Description from the manifest, when one was used.
	Description string `json:"description,omitempty"`
	// Author from the manifest, when one was used.
	Author string `json:"author,omitempty"`
	// Tags from the manifest, when one was used.
	Tags []string `json:"tags,omitempty"`
}

// DebugResponse is returned by GET /debug to inspect a failed deployment.
type DebugResponse struct {
	// Loaded reports whether a model is currently loaded.
	Loaded bool `json:"loaded"`
	// ModelDir is the directory the engine inspected.
	ModelDir string `json:"model_dir,omitempty"`
	// LastError is the most recent fatal load error.
	LastError string `json:"last_error,omitempty"`
	// Trace of the most recent load resolution.
	Trace []TraceEntry `json:"trace,omitempty"`
	// Files observed in the model directory (recursive), with sizes.
	Files []FileEntry `json:"files,omitempty"`
}

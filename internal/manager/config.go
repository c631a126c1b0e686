package manager

import (
	"github.com/rs/zerolog"

	"github.com/aliyansajid/aiforge/internal/adapters"
	"github.com/aliyansajid/aiforge/internal/entrypoint"
)

// Candidate callable names probed by the heuristic tiers, in preference order.
var (
	defaultLoadCandidates    = []string{"load_model", "load", "initialize", "init", "setup"}
	defaultPredictCandidates = []string{"predict", "inference", "run", "forward", "call"}
)

// Conventional entry-point filenames scanned by the heuristic tier, in order.
var heuristicScriptNames = []string{
	"inference" + entrypoint.ScriptSuffix,
	"predict" + entrypoint.ScriptSuffix,
	"model" + entrypoint.ScriptSuffix,
	"handler" + entrypoint.ScriptSuffix,
	"main" + entrypoint.ScriptSuffix,
}

// SessionConfig encapsulates all tunables for Session construction.
type SessionConfig struct {
	// Adapters are the built-in framework integrations used by tier 4.
	// Defaults to adapters.BuiltinSet().
	Adapters []adapters.Adapter
	// Binder resolves user scripts into executable units. Defaults to the
	// plugin binder.
	Binder entrypoint.Binder
	// Logger for engine events. Defaults to a disabled logger.
	Logger zerolog.Logger
	// LoadCandidates/PredictCandidates override the heuristic callable name
	// tables. Defaults apply when empty.
	LoadCandidates    []string
	PredictCandidates []string
}

func (c *SessionConfig) applyDefaults() {
	if c.Adapters == nil {
		c.Adapters = adapters.BuiltinSet()
	}
	if c.Binder == nil {
		c.Binder = entrypoint.PluginBinder{}
	}
	if len(c.LoadCandidates) == 0 {
		c.LoadCandidates = defaultLoadCandidates
	}
	if len(c.PredictCandidates) == 0 {
		c.PredictCandidates = defaultPredictCandidates
	}
}

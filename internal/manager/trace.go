package manager

import "github.com/aliyansajid/aiforge/pkg/types"

// Strategy names recorded in the resolution trace.
const (
	strategyManifest  = "manifest"
	strategyCustom    = "custom-script"
	strategyHeuristic = "heuristic"
	strategyBuiltin   = "builtin"
)

// trace collects strategy attempts in order. Append-only; read whole by
// diagnostics.
type trace struct {
	entries []types.TraceEntry
}

func (t *trace) succeeded(strategy string) {
	t.entries = append(t.entries, types.TraceEntry{
		Strategy: strategy,
		Outcome:  types.OutcomeSucceeded,
	})
}

func (t *trace) failed(strategy, reason string) {
	t.entries = append(t.entries, types.TraceEntry{
		Strategy: strategy,
		Outcome:  types.OutcomeFailed,
		Reason:   reason,
	})
}

func (t *trace) skipped(strategy, reason string) {
	t.entries = append(t.entries, types.TraceEntry{
		Strategy: strategy,
		Outcome:  types.OutcomeSkipped,
		Reason:   reason,
	})
}

// Package manager owns the model session and the resolution engine that
// decides how an arbitrary uploaded artifact is loaded and invoked. It is
// structured into small files by concern:
//
//   - session.go: the Session type, constructor, and loaded-state accessors.
//   - config.go: SessionConfig and package defaults (candidate name tables).
//   - resolve.go: the tiered load resolution chain (manifest -> explicit
//     script -> heuristic scan -> built-in adapter).
//   - predict.go: the mirrored prediction dispatch.
//   - trace.go: the append-only resolution trace read by diagnostics.
//   - admission.go: the single-owner execution lane serializing predict calls
//     on handles that are not safe for concurrent use.
//   - status_report.go: status/info/debug projections for the HTTP layer.
//   - errors.go: error types and helpers (IsNotReady, IsNoLoadStrategy, ...).
//
// Resolution policy: tier 1 (manifest) and tier 4 (built-in adapter) failures
// are fatal and surface immediately with the full trace; tiers 2 and 3 are
// recovered locally and fall through. A manifest beside the artifact always
// owns loading: its failures never fall back to heuristics.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (NewSession, Load, Predict, Status, Info, Debug,
// Ready). Internal state is subject to change.
package manager

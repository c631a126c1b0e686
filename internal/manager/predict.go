package manager

import (
	"context"
	"fmt"

	"github.com/aliyansajid/aiforge/internal/manifest"
	"github.com/aliyansajid/aiforge/internal/normalize"
)

// Predict runs one inference against the loaded model and returns the
// normalized result. Dispatch mirrors the load strategy: a manifest-loaded
// model uses only its declared predict function, a script-loaded model probes
// the candidate name table, and a built-in load goes through its adapter.
func (s *Session) Predict(ctx context.Context, input any) (any, error) {
	s.mu.RLock()
	st, lane := s.st, s.lane
	s.mu.RUnlock()
	if st == nil {
		return nil, ErrNotReady()
	}

	var raw any
	var err error
	switch {
	case st.man != nil:
		raw, err = s.predictManifest(st, input)
	case st.unit != nil:
		raw, err = s.predictCandidates(st, input)
	default:
		raw, err = s.predictAdapter(ctx, st, lane, input)
	}
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(raw), nil
}

// predictManifest invokes exactly the declared predict function. A model
// that committed to a manifest never falls back to name probing; doing so
// would mask a broken declaration.
func (s *Session) predictManifest(st *loadedState, input any) (any, error) {
	fn := st.man.Predict.FuncName()
	if !st.unit.HasCallable(fn) {
		return nil, predictInvocationError{name: fn, cause: errCallableMissing(fn)}
	}
	args := make([]any, 0, len(st.man.Predict.Args))
	for _, tok := range st.man.Predict.Args {
		args = append(args, resolvePredictArg(tok, st, input))
	}
	res, err := st.unit.Invoke(fn, args...)
	if err != nil {
		return nil, predictInvocationError{name: fn, cause: err}
	}
	return res, nil
}

// predictCandidates probes the candidate name table in order. Arity decides
// the calling convention; when introspection itself fails the candidate is
// attempted directly, input-only first and then handle plus input.
func (s *Session) predictCandidates(st *loadedState, input any) (any, error) {
	tried := make([]string, 0, len(s.cfg.PredictCandidates))
	for _, name := range s.cfg.PredictCandidates {
		tried = append(tried, name)
		if !st.unit.HasCallable(name) {
			continue
		}
		arity, err := st.unit.Arity(name)
		if err != nil {
			if res, err := st.unit.Invoke(name, input); err == nil {
				return res, nil
			}
			if res, err := st.unit.Invoke(name, st.handle, input); err == nil {
				return res, nil
			}
			continue
		}
		res, err := st.unit.Invoke(name, predictArgs(arity, st.handle, input)...)
		if err != nil {
			s.cfg.Logger.Warn().Err(err).Str("func", name).Msg("predict candidate failed")
			continue
		}
		return res, nil
	}
	return nil, noPredictStrategyError{tried: tried}
}

// predictAdapter routes through the built-in adapter, serialized on the lane
// when the underlying handle is not safe for concurrent inference.
func (s *Session) predictAdapter(ctx context.Context, st *loadedState, lane chan struct{}, input any) (any, error) {
	release, err := acquireLane(ctx, lane)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := st.adapter.Predict(st.handle, input)
	if err != nil {
		return nil, predictInvocationError{name: string(st.framework), cause: err}
	}
	return res, nil
}

func errCallableMissing(name string) error {
	return fmt.Errorf("function %q not found in entry point", name)
}

// resolvePredictArg expands a manifest argument token at predict time. The
// vocabulary is closed and validated at parse time, so every token here is
// resolvable.
func resolvePredictArg(tok string, st *loadedState, input any) any {
	switch tok {
	case manifest.ArgInputData:
		return input
	case manifest.ArgModel:
		return st.handle
	case manifest.ArgModelPath:
		return st.modelPath
	case manifest.ArgModelDir:
		return st.modelDir
	}
	return nil
}

// predictArgs is the arity -> calling-convention table for predict
// candidates: 0 means the function holds all state itself, 1 takes the
// input, and anything wider takes the model handle followed by the input.
func predictArgs(arity int, handle, input any) []any {
	switch arity {
	case 0:
		return nil
	case 1:
		return []any{input}
	default:
		return []any{handle, input}
	}
}

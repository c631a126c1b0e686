package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aliyansajid/aiforge/internal/adapters"
	"github.com/aliyansajid/aiforge/internal/common/fsutil"
	"github.com/aliyansajid/aiforge/internal/entrypoint"
	"github.com/aliyansajid/aiforge/internal/manifest"
	"github.com/aliyansajid/aiforge/pkg/types"
)

// LoadRequest names the artifact to load. All fields are optional, but at
// least one of Dir/ModelPath must resolve to something on disk.
type LoadRequest struct {
	// Dir is the model bundle directory.
	Dir string
	// ModelPath pins the model file explicitly.
	ModelPath string
	// ScriptPath pins a custom inference script explicitly (tier 2).
	ScriptPath string
	// Framework is an optional hint that bypasses suffix detection in the
	// built-in tier.
	Framework types.Framework
}

// Load runs the tiered load resolution chain and, on success, atomically
// installs the new model state. On a fatal failure the prior state, if any,
// remains authoritative and the failure is retained for status/debug.
//
// Priority: manifest -> explicit script -> heuristic scan -> built-in
// adapter. Manifest and built-in failures are fatal; the script tiers are
// recovered locally and fall through.
func (s *Session) Load(ctx context.Context, req LoadRequest) (types.LoadOutcome, error) {
	opID := uuid.NewString()
	log := s.cfg.Logger.With().Str("op_id", opID).Logger()
	tr := &trace{}

	dir := req.Dir
	if dir == "" && req.ModelPath != "" {
		dir = filepath.Dir(req.ModelPath)
	}

	fatal := func(cause error) (types.LoadOutcome, error) {
		err := noLoadStrategyError{
			dir:   dir,
			trace: tr.entries,
			files: fsutil.ListFiles(dir),
			cause: cause,
		}
		s.recordFailure(dir, tr.entries, err)
		log.Error().Err(cause).Str("dir", dir).Msg("model load failed")
		return types.LoadOutcome{OpID: opID, Trace: tr.entries}, err
	}

	if err := ctx.Err(); err != nil {
		return fatal(err)
	}

	// Tier 1: a manifest beside the artifact owns loading entirely. Its
	// failures never fall through: silently falling back would run the wrong
	// code path over the declared artifact.
	if dir != "" && fsutil.PathExists(filepath.Join(dir, manifest.FileName)) {
		st, err := s.loadFromManifest(dir)
		if err != nil {
			tr.failed(strategyManifest, err.Error())
			return fatal(err)
		}
		tr.succeeded(strategyManifest)
		return s.commit(opID, st, tr, log)
	}
	tr.skipped(strategyManifest, "no "+manifest.FileName)

	// The script tiers and the built-in tier need a concrete model file;
	// search the bundle when the caller did not pin one.
	modelPath := req.ModelPath
	if modelPath == "" && dir != "" {
		if p, ok := fsutil.FindBySuffix(dir, adapters.ModelSuffixes()); ok {
			modelPath = p
		}
	}

	// Tier 2: explicit custom script. Recovered locally on failure.
	if req.ScriptPath != "" {
		st, err := s.loadViaScript(strategyCustom, req.ScriptPath, modelPath, dir, log)
		if err == nil {
			tr.succeeded(strategyCustom)
			return s.commit(opID, st, tr, log)
		}
		tr.failed(strategyCustom, err.Error())
		log.Warn().Err(err).Str("script", req.ScriptPath).Msg("explicit script tier failed")
	} else {
		tr.skipped(strategyCustom, "no explicit inference script")
	}

	// Tier 3: scan conventional script filenames. Recovered locally.
	if dir != "" {
		found := false
		for _, name := range heuristicScriptNames {
			p := filepath.Join(dir, name)
			if !fsutil.PathExists(p) {
				continue
			}
			found = true
			st, err := s.loadViaScript(strategyHeuristic, p, modelPath, dir, log)
			if err == nil {
				tr.succeeded(strategyHeuristic)
				return s.commit(opID, st, tr, log)
			}
			tr.failed(strategyHeuristic, name+": "+err.Error())
			log.Warn().Err(err).Str("script", name).Msg("heuristic script failed")
		}
		if !found {
			tr.skipped(strategyHeuristic, "no conventional inference script present")
		}
	} else {
		tr.skipped(strategyHeuristic, "no model directory")
	}

	// Tier 4: built-in framework loading. The last tier; fatal on failure.
	target := modelPath
	if target == "" {
		target = dir
	}
	if target == "" {
		tr.failed(strategyBuiltin, "nothing to inspect")
		return fatal(fmt.Errorf("no model path given and no recognizable model file found"))
	}
	fw := req.Framework
	if fw == "" {
		detected, err := adapters.Detect(target)
		if err != nil {
			tr.failed(strategyBuiltin, err.Error())
			return fatal(err)
		}
		fw = detected
	}
	ad := adapters.ForFramework(s.cfg.Adapters, fw)
	if ad == nil {
		tr.failed(strategyBuiltin, "no adapter for "+string(fw))
		return fatal(fmt.Errorf("no built-in adapter serves framework %q", fw))
	}
	handle, err := ad.Load(target)
	if err != nil {
		tr.failed(strategyBuiltin, err.Error())
		return fatal(err)
	}
	tr.succeeded(strategyBuiltin)
	return s.commit(opID, &loadedState{
		handle:    handle,
		framework: fw,
		strategy:  strategyBuiltin,
		adapter:   ad,
		modelID:   target,
		modelPath: target,
		modelDir:  dir,
	}, tr, log)
}

func (s *Session) commit(opID string, st *loadedState, tr *trace, log zerolog.Logger) (types.LoadOutcome, error) {
	s.install(st, tr.entries)
	log.Info().
		Str("framework", string(st.framework)).
		Str("strategy", st.strategy).
		Str("model", st.modelID).
		Msg("model loaded")
	return types.LoadOutcome{
		OpID:      opID,
		Framework: st.framework,
		ModelID:   st.modelID,
		Strategy:  st.strategy,
		Trace:     tr.entries,
	}, nil
}

// loadFromManifest executes the manifest's declared load function with its
// declared argument tokens. Every failure in here is fatal to resolution.
func (s *Session) loadFromManifest(dir string) (*loadedState, error) {
	m, err := manifest.LoadFile(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return nil, err
	}

	entryPath := filepath.Join(dir, m.EntryPoint)
	if !fsutil.PathExists(entryPath) {
		return nil, fmt.Errorf("entry point %q not found in bundle", m.EntryPoint)
	}
	modelFile := filepath.Join(dir, m.ModelFile)
	if !fsutil.PathExists(modelFile) {
		return nil, fmt.Errorf("model file %q not found in bundle", m.ModelFile)
	}
	for _, aux := range m.AuxiliaryFiles {
		if !fsutil.PathExists(filepath.Join(dir, aux)) {
			return nil, fmt.Errorf("auxiliary file %q not found in bundle", aux)
		}
	}

	unit, err := s.bindManifestEntry(m, entryPath)
	if err != nil {
		return nil, err
	}

	fn := m.Load.FuncName()
	if !unit.HasCallable(fn) {
		return nil, fmt.Errorf("load function %q not found in %s", fn, m.EntryPoint)
	}
	args := make([]any, 0, len(m.Load.Args))
	for _, tok := range m.Load.Args {
		switch tok {
		case manifest.ArgModelPath:
			args = append(args, modelFile)
		case manifest.ArgModelDir:
			args = append(args, dir)
		default:
			return nil, fmt.Errorf("argument %q is not available at load time", tok)
		}
	}
	handle, err := unit.Invoke(fn, args...)
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, fmt.Errorf("load function %q returned no model", fn)
	}

	return &loadedState{
		handle:    handle,
		framework: m.FrameworkTag(),
		strategy:  strategyManifest,
		unit:      unit,
		man:       m,
		modelID:   modelFile,
		modelPath: modelFile,
		modelDir:  dir,
	}, nil
}

func (s *Session) bindManifestEntry(m *manifest.Manifest, entryPath string) (entrypoint.Unit, error) {
	if m.EntryPointType == manifest.EntryPointClass {
		return s.cfg.Binder.BindClass(entryPath, m.ClassName)
	}
	return s.cfg.Binder.Bind(entryPath)
}

// loadViaScript binds a script and probes the common load-function names,
// dispatching arguments by arity. First candidate returning a non-nil model
// wins; candidate failures are tier-local and the next name is tried.
func (s *Session) loadViaScript(strategy, scriptPath, modelPath, dir string, log zerolog.Logger) (*loadedState, error) {
	u, err := s.cfg.Binder.Bind(scriptPath)
	if err != nil {
		return nil, err
	}
	if dir == "" && modelPath != "" {
		dir = filepath.Dir(modelPath)
	}
	var tried []string
	for _, name := range s.cfg.LoadCandidates {
		if !u.HasCallable(name) {
			continue
		}
		tried = append(tried, name)
		arity, err := u.Arity(name)
		if err != nil {
			log.Warn().Err(err).Str("func", name).Msg("load candidate introspection failed")
			continue
		}
		handle, err := u.Invoke(name, loadArgs(arity, modelPath, dir)...)
		if err != nil {
			log.Warn().Err(err).Str("func", name).Msg("load candidate failed")
			continue
		}
		if handle == nil {
			continue
		}
		modelID := modelPath
		if modelID == "" {
			modelID = scriptPath
		}
		return &loadedState{
			handle:    handle,
			framework: types.FrameworkCustom,
			strategy:  strategy,
			unit:      u,
			modelID:   modelID,
			modelPath: modelPath,
			modelDir:  dir,
		}, nil
	}
	if len(tried) == 0 {
		return nil, fmt.Errorf("no load function in %s; looked for: %s",
			scriptPath, strings.Join(s.cfg.LoadCandidates, ", "))
	}
	return nil, fmt.Errorf("no load function in %s returned a model; tried: %s",
		scriptPath, strings.Join(tried, ", "))
}

// loadArgs is the single arity -> calling-convention table for load
// candidates: 0 means the function loads everything itself, 1 takes the
// model path, 2 takes path and directory; anything wider gets the path only.
func loadArgs(arity int, modelPath, dir string) []any {
	switch arity {
	case 0:
		return nil
	case 1:
		return []any{modelPath}
	case 2:
		return []any{modelPath, dir}
	default:
		return []any{modelPath}
	}
}

package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aliyansajid/aiforge/internal/adapters"
	"github.com/aliyansajid/aiforge/internal/entrypoint"
	"github.com/aliyansajid/aiforge/internal/manifest"
	"github.com/aliyansajid/aiforge/pkg/types"
)

// fakeBinder maps script base names to prebuilt units, standing in for the
// plugin binder so tests need no compiled artifacts.
type fakeBinder struct {
	units   map[string]entrypoint.Unit
	classes map[string]entrypoint.Unit
	err     error
}

func (b fakeBinder) Bind(scriptPath string) (entrypoint.Unit, error) {
	if b.err != nil {
		return nil, b.err
	}
	u, ok := b.units[filepath.Base(scriptPath)]
	if !ok {
		return nil, errors.New("bind: no such unit")
	}
	return u, nil
}

func (b fakeBinder) BindClass(scriptPath, className string) (entrypoint.Unit, error) {
	if b.err != nil {
		return nil, b.err
	}
	u, ok := b.classes[className]
	if !ok {
		return nil, errors.New("bind: no such class")
	}
	return u, nil
}

// fakeRuntime backs a built-in adapter in tests.
type fakeRuntime struct {
	loadErr error
	predict func(h adapters.Handle, input any) (any, error)
}

func (r *fakeRuntime) Load(path string) (adapters.Handle, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return "handle:" + path, nil
}

func (r *fakeRuntime) Predict(h adapters.Handle, input any) (any, error) {
	if r.predict != nil {
		return r.predict(h, input)
	}
	return []float64{1}, nil
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestTierWins(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "sentiment", "version": "1.2.0",
		"entry_point": "model.so",
		"model_file": "weights.pkl",
		"load": {"name": "load_model", "args": ["model_path"]},
		"predict": {"name": "run_inference", "args": ["model", "input_data"]}
	}`)
	touch(t, dir, "model.so")
	weights := touch(t, dir, "weights.pkl")
	// A working conventional script is present too; the manifest must still win.
	touch(t, dir, "inference.so")

	var gotPath string
	unit := entrypoint.NewSymbolUnit("model.so", map[string]any{
		"load_model": func(p string) any { gotPath = p; return "m" },
		"run_inference": func(model any, input any) any {
			return []any{model, input}
		},
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{
			"model.so":     unit,
			"inference.so": entrypoint.NewSymbolUnit("inference.so", nil),
		}},
	})

	out, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != strategyManifest {
		t.Fatalf("strategy = %q, want %q", out.Strategy, strategyManifest)
	}
	if out.Framework != types.FrameworkCustom {
		t.Fatalf("framework = %q, want custom", out.Framework)
	}
	if gotPath != weights {
		t.Fatalf("load_model received %q, want %q", gotPath, weights)
	}
	if out.OpID == "" {
		t.Fatal("expected a non-empty op id")
	}

	res, err := s.Predict(context.Background(), "great movie")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	pair, ok := res.([]any)
	if !ok || len(pair) != 2 || pair[0] != "m" || pair[1] != "great movie" {
		t.Fatalf("predict routed wrong args: %#v", res)
	}
}

func TestLoadManifestFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	// Unknown argument token; a usable inference.so sits beside it but a
	// broken manifest must never fall through to the script tiers.
	writeManifest(t, dir, `{
		"entry_point": "model.so",
		"model_file": "weights.pkl",
		"load": {"name": "load_model", "args": ["weights_path"]},
		"predict": {"name": "predict", "args": ["input_data"]}
	}`)
	touch(t, dir, "model.so")
	touch(t, dir, "weights.pkl")
	touch(t, dir, "inference.so")

	good := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"load_model": func(string) any { return "m" },
		"predict":    func(any) any { return "p" },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"inference.so": good}},
	})

	_, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if !IsNoLoadStrategy(err) {
		t.Fatalf("expected terminal load failure, got %v", err)
	}
	if !manifest.IsInvalidArg(err) {
		t.Fatalf("expected the manifest arg error to be preserved, got %v", err)
	}
	if s.Ready() {
		t.Fatal("session must stay unloaded after a fatal manifest failure")
	}
	tr := LoadTrace(err)
	if len(tr) != 1 || tr[0].Strategy != strategyManifest || tr[0].Outcome != types.OutcomeFailed {
		t.Fatalf("trace = %#v", tr)
	}
}

func TestLoadHeuristicScriptTier(t *testing.T) {
	dir := t.TempDir()
	model := touch(t, dir, "model.pt")
	touch(t, dir, "inference.so")

	var gotPath, gotDir string
	unit := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"load_model": func(p, d string) any { gotPath, gotDir = p, d; return "h" },
		"predict":    func(in any) any { return in },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"inference.so": unit}},
	})

	out, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != strategyHeuristic {
		t.Fatalf("strategy = %q, want %q", out.Strategy, strategyHeuristic)
	}
	if out.Framework != types.FrameworkCustom {
		t.Fatalf("framework = %q, want custom", out.Framework)
	}
	if gotPath != model || gotDir != dir {
		t.Fatalf("two-arg load received (%q, %q), want (%q, %q)", gotPath, gotDir, model, dir)
	}
}

func TestLoadExplicitScriptBeatsHeuristic(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "model.pkl")
	touch(t, dir, "inference.so")
	custom := touch(t, dir, "my_runner.so")

	explicit := entrypoint.NewSymbolUnit("my_runner.so", map[string]any{
		"load": func(string) any { return "explicit" },
	})
	conventional := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"load": func(string) any { return "conventional" },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{
			"my_runner.so": explicit,
			"inference.so": conventional,
		}},
	})

	out, err := s.Load(context.Background(), LoadRequest{Dir: dir, ScriptPath: custom})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != strategyCustom {
		t.Fatalf("strategy = %q, want %q", out.Strategy, strategyCustom)
	}
}

func TestLoadCandidateNameOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "model.pkl")
	touch(t, dir, "inference.so")

	var called []string
	unit := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"initialize": func(string) any { called = append(called, "initialize"); return "i" },
		"load_model": func(string) any { called = append(called, "load_model"); return "l" },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"inference.so": unit}},
	})

	if _, err := s.Load(context.Background(), LoadRequest{Dir: dir}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(called) != 1 || called[0] != "load_model" {
		t.Fatalf("called = %v, want load_model only", called)
	}
}

func TestLoadFailedCandidateFallsThrough(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "model.pkl")
	touch(t, dir, "inference.so")

	unit := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"load_model": func(string) (any, error) { return nil, errors.New("corrupt weights") },
		"load":       func(string) any { return "recovered" },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"inference.so": unit}},
	})

	out, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != strategyHeuristic {
		t.Fatalf("strategy = %q", out.Strategy)
	}
}

func TestLoadBuiltinTier(t *testing.T) {
	dir := t.TempDir()
	model := touch(t, dir, "model.pkl")

	s := NewSession(SessionConfig{
		Adapters: []adapters.Adapter{adapters.NewSklearnAdapter(&fakeRuntime{})},
		Binder:   fakeBinder{},
	})

	out, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != strategyBuiltin {
		t.Fatalf("strategy = %q, want %q", out.Strategy, strategyBuiltin)
	}
	if out.Framework != types.FrameworkSklearn {
		t.Fatalf("framework = %q, want sklearn", out.Framework)
	}
	if out.ModelID != model {
		t.Fatalf("model id = %q, want %q", out.ModelID, model)
	}
}

func TestLoadExhaustionReportsEveryTier(t *testing.T) {
	dir := t.TempDir()
	// A predict-only script and no recognizable model file: the script tier
	// fails on load-candidate exhaustion and the built-in tier has nothing
	// to detect.
	touch(t, dir, "inference.so")
	touch(t, dir, "notes.txt")

	unit := entrypoint.NewSymbolUnit("inference.so", map[string]any{
		"predict": func(in any) any { return in },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"inference.so": unit}},
	})

	_, err := s.Load(context.Background(), LoadRequest{Dir: dir})
	if !IsNoLoadStrategy(err) {
		t.Fatalf("expected terminal load failure, got %v", err)
	}

	outcomes := map[string]types.TraceOutcome{}
	for _, e := range LoadTrace(err) {
		outcomes[e.Strategy] = e.Outcome
	}
	want := map[string]types.TraceOutcome{
		strategyManifest:  types.OutcomeSkipped,
		strategyCustom:    types.OutcomeSkipped,
		strategyHeuristic: types.OutcomeFailed,
		strategyBuiltin:   types.OutcomeFailed,
	}
	for strat, out := range want {
		if outcomes[strat] != out {
			t.Errorf("%s outcome = %q, want %q", strat, outcomes[strat], out)
		}
	}

	// The rendered error must surface the directory contents.
	msg := err.Error()
	for _, frag := range []string{"inference.so", "notes.txt", "observed files"} {
		if !strings.Contains(msg, frag) {
			t.Errorf("error text missing %q:\n%s", frag, msg)
		}
	}
}

func TestLoadFailureKeepsPriorModel(t *testing.T) {
	good := t.TempDir()
	touch(t, good, "model.pkl")
	bad := t.TempDir()
	touch(t, bad, "notes.txt")

	s := NewSession(SessionConfig{
		Adapters: []adapters.Adapter{adapters.NewSklearnAdapter(&fakeRuntime{})},
		Binder:   fakeBinder{},
	})
	if _, err := s.Load(context.Background(), LoadRequest{Dir: good}); err != nil {
		t.Fatalf("first Load: %v", err)
	}

	if _, err := s.Load(context.Background(), LoadRequest{Dir: bad}); err == nil {
		t.Fatal("expected the reload into an empty dir to fail")
	}
	if !s.Ready() {
		t.Fatal("prior model must survive a failed reload")
	}
	if _, err := s.Predict(context.Background(), []any{[]any{1.0, 2.0}}); err != nil {
		t.Fatalf("Predict after failed reload: %v", err)
	}
	st := s.Status()
	if !st.Loaded || st.LastError == "" {
		t.Fatalf("status after failed reload = %+v", st)
	}
}

func TestLoadClassEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"entry_point": "model.so",
		"entry_point_type": "class",
		"class_name": "Scorer",
		"model_file": "weights.pkl",
		"load": {"name": "load", "args": ["model_path"]},
		"predict": {"name": "predict", "args": ["input_data"]}
	}`)
	touch(t, dir, "model.so")
	touch(t, dir, "weights.pkl")

	inst := &scorer{}
	s := NewSession(SessionConfig{
		Binder: fakeBinder{classes: map[string]entrypoint.Unit{
			"Scorer": entrypoint.NewClassUnit("model.so", inst),
		}},
	})
	if _, err := s.Load(context.Background(), LoadRequest{Dir: dir}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := s.Predict(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res != "scored:hi" {
		t.Fatalf("res = %v", res)
	}
}

type scorer struct{ loaded bool }

func (s *scorer) Load(path string) any        { s.loaded = true; return s }
func (s *scorer) Predict(input string) string { return "scored:" + input }

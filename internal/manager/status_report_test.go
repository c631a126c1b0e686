package manager

import (
	"context"
	"testing"

	"github.com/aliyansajid/aiforge/internal/entrypoint"
)

func TestStatusUnloaded(t *testing.T) {
	s := NewSession(SessionConfig{Binder: fakeBinder{}})
	st := s.Status()
	if st.Loaded || st.Framework != "" || st.LoadsTotal != 0 {
		t.Fatalf("status = %+v", st)
	}
	if st.ServerTimeUnix == 0 {
		t.Fatal("server time missing")
	}
	if _, ok := s.Info(); ok {
		t.Fatal("Info must report absent while unloaded")
	}
}

func TestInfoCarriesManifestMetadata(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "iris", "version": "2.0.1",
		"description": "iris classifier", "author": "ml-team",
		"tags": ["tabular", "demo"],
		"framework": "sklearn",
		"entry_point": "model.so",
		"model_file": "weights.pkl",
		"load": {"name": "load_model", "args": []},
		"predict": {"name": "predict", "args": ["model", "input_data"]}
	}`)
	touch(t, dir, "model.so")
	touch(t, dir, "weights.pkl")

	unit := entrypoint.NewSymbolUnit("model.so", map[string]any{
		"load_model": func() any { return "h" },
		"predict":    func(any, any) any { return nil },
	})
	s := NewSession(SessionConfig{
		Binder: fakeBinder{units: map[string]entrypoint.Unit{"model.so": unit}},
	})
	if _, err := s.Load(context.Background(), LoadRequest{Dir: dir}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	info, ok := s.Info()
	if !ok {
		t.Fatal("Info absent after load")
	}
	if info.Name != "iris" || info.Version != "2.0.1" || info.Author != "ml-team" {
		t.Fatalf("info = %+v", info)
	}
	if info.Framework != "sklearn" || info.Status != "ready" {
		t.Fatalf("info = %+v", info)
	}
	if len(info.Tags) != 2 {
		t.Fatalf("tags = %v", info.Tags)
	}

	st := s.Status()
	if !st.Loaded || st.Strategy != strategyManifest || st.LoadsTotal != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestDebugAfterFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "README.md")

	s := NewSession(SessionConfig{Binder: fakeBinder{}})
	if _, err := s.Load(context.Background(), LoadRequest{Dir: dir}); err == nil {
		t.Fatal("expected the load to fail")
	}

	dbg := s.Debug()
	if dbg.Loaded {
		t.Fatal("debug reports loaded after a failed load")
	}
	if dbg.ModelDir != dir || dbg.LastError == "" {
		t.Fatalf("debug = %+v", dbg)
	}
	if len(dbg.Trace) == 0 {
		t.Fatal("debug is missing the resolution trace")
	}
	found := false
	for _, f := range dbg.Files {
		if f.Path == "README.md" {
			found = true
		}
	}
	if !found {
		t.Fatalf("debug files = %+v", dbg.Files)
	}
}

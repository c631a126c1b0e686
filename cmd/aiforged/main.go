package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aliyansajid/aiforge/internal/artifacts"
	"github.com/aliyansajid/aiforge/internal/config"
	"github.com/aliyansajid/aiforge/internal/httpapi"
	"github.com/aliyansajid/aiforge/internal/manager"
	"github.com/aliyansajid/aiforge/pkg/types"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// envDefault reads an AIFORGE_* environment default for a flag.
func envDefault(name, fallback string) string {
	if v := os.Getenv("AIFORGE_" + name); v != "" {
		return v
	}
	return fallback
}

func buildRootCmd() *cobra.Command {
	var (
		cfgPath string
		cfg     config.Config
	)
	root := &cobra.Command{
		Use:           "aiforged",
		Short:         "Model serving gateway: drop a model in, get an inference API out",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgPath, cfg)
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", envDefault("CONFIG", ""), "Optional config file (.yaml/.json/.toml)")
	f.StringVar(&cfg.Addr, "addr", envDefault("ADDR", ""), "HTTP listen address, e.g. :8080")
	f.StringVar(&cfg.ModelDir, "model-dir", envDefault("MODEL_DIR", ""), "Model bundle directory or artifact identifier")
	f.StringVar(&cfg.ModelPath, "model-path", envDefault("MODEL_PATH", ""), "Explicit model file path")
	f.StringVar(&cfg.ScriptPath, "script-path", envDefault("SCRIPT_PATH", ""), "Explicit inference script (compiled plugin)")
	f.StringVar(&cfg.Framework, "framework", envDefault("FRAMEWORK", ""), "Framework hint: pytorch|tensorflow|onnx|sklearn|custom")
	f.StringVar(&cfg.ArtifactRoot, "artifact-root", envDefault("ARTIFACT_ROOT", ""), "Local artifact store resolved against for bare identifiers")
	f.StringVar(&cfg.APIKey, "api-key", envDefault("API_KEY", ""), "Require this X-API-Key on API routes (empty disables)")
	f.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", 0, "Maximum request body size in bytes (0 = 1MiB default)")
	f.Int64Var(&cfg.PredictTimeoutSec, "predict-timeout-sec", 0, "Per-request predict timeout in seconds (0 disables)")
	f.StringVar(&cfg.LogLevel, "log-level", envDefault("LOG_LEVEL", "info"), "Log level: debug|info|warn|error")

	return root
}

func run(cfgPath string, flags config.Config) error {
	cfg := flags
	if cfgPath != "" {
		fileCfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		// Flags win over file values.
		cfg = mergeConfig(fileCfg, flags)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	log := newLogger(cfg.LogLevel)

	// Process-level context, canceled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := manager.NewSession(manager.SessionConfig{Logger: log})
	startupLoad(ctx, log, session, cfg)

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetAPIKey(cfg.APIKey)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeoutSeconds(cfg.PredictTimeoutSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(session),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("aiforged listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown")
	}
	return nil
}

// startupLoad attempts the initial model load. A failure is recorded in the
// session and reported by /status and /debug; the server starts regardless so
// operators can inspect what went wrong.
func startupLoad(ctx context.Context, log zerolog.Logger, session *manager.Session, cfg config.Config) {
	req := manager.LoadRequest{
		Dir:        cfg.ModelDir,
		ModelPath:  cfg.ModelPath,
		ScriptPath: cfg.ScriptPath,
	}
	if cfg.Framework != "" {
		req.Framework = frameworkFromString(cfg.Framework)
	}
	if cfg.ArtifactRoot != "" && cfg.ModelDir != "" {
		fetcher := &artifacts.LocalFetcher{Root: cfg.ArtifactRoot}
		dir, err := fetcher.Fetch(ctx, cfg.ModelDir)
		if err != nil {
			// A failed fetch falls back to treating model_dir as a local path.
			log.Warn().Err(err).Msg("artifact fetch failed, using local paths")
		} else {
			req.Dir = dir
		}
	}
	if req.Dir == "" && req.ModelPath == "" {
		log.Warn().Msg("no model configured; serving unloaded")
		return
	}

	out, err := session.Load(ctx, req)
	httpapi.ObserveLoad(out.Strategy, err == nil)
	if err != nil {
		log.Error().Err(err).Msg("startup model load failed; serving unloaded")
	}
}

// mergeConfig overlays non-zero flag values on top of file values.
func mergeConfig(file, flags config.Config) config.Config {
	out := file
	if flags.Addr != "" {
		out.Addr = flags.Addr
	}
	if flags.ModelDir != "" {
		out.ModelDir = flags.ModelDir
	}
	if flags.ModelPath != "" {
		out.ModelPath = flags.ModelPath
	}
	if flags.ScriptPath != "" {
		out.ScriptPath = flags.ScriptPath
	}
	if flags.Framework != "" {
		out.Framework = flags.Framework
	}
	if flags.ArtifactRoot != "" {
		out.ArtifactRoot = flags.ArtifactRoot
	}
	if flags.APIKey != "" {
		out.APIKey = flags.APIKey
	}
	if flags.MaxBodyBytes != 0 {
		out.MaxBodyBytes = flags.MaxBodyBytes
	}
	if flags.PredictTimeoutSec != 0 {
		out.PredictTimeoutSec = flags.PredictTimeoutSec
	}
	if flags.LogLevel != "" {
		out.LogLevel = flags.LogLevel
	}
	return out
}

// frameworkFromString maps a user-supplied hint to a framework tag. Unknown
// hints are dropped so startup falls back to suffix detection.
func frameworkFromString(s string) types.Framework {
	f := types.Framework(strings.ToLower(s))
	if f.Valid() {
		return f
	}
	return ""
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(ctx context.Context, input any) (any, error)
	Status() types.StatusResponse
	Info() (types.InfoResponse, bool)
	Debug() types.DebugResponse
	Ready() bool
}

// NewMux builds the HTTP router: /predict, /status, /info, /debug plus the
// health, readiness and metrics endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(apiKeyMiddleware)

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		handlePredict(svc, w, r)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		info, ok := svc.Info()
		if !ok {
			writeJSONError(w, http.StatusServiceUnavailable, "model not loaded")
			return
		}
		writeJSON(w, http.StatusOK, info)
	})

	r.Get("/debug", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Debug())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handlePredict serves POST /predict.
//
// @Summary  Run inference against the loaded model
// @Accept   json
// @Produce  json
// @Param    request body types.PredictRequest true "Inference input"
// @Success  200 {object} types.PredictResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /predict [post]
func handlePredict(svc Service, w http.ResponseWriter, r *http.Request) {
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// MaxBytesReader failures land here too; keep the response uniform.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Input == nil {
		writeJSONError(w, http.StatusBadRequest, "input is required")
		return
	}

	// Join server base context with request context so shutdown cancels
	// in-flight work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if sec := predictTimeout; sec > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(sec)*time.Second)
		defer tcancel()
	}

	info, _ := svc.Info()
	start := time.Now()
	prediction, err := svc.Predict(ctx, req.Input)
	dur := time.Since(start)
	if err != nil {
		// Client disconnect or shutdown: nothing useful to report.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := statusForError(err)
		ObservePrediction(info.Framework, false)
		writeJSONError(w, status, err.Error())
		logPredict(r, status, dur, err)
		return
	}
	if info.Framework == "" {
		// The model may have been loaded between the Info probe and now.
		info, _ = svc.Info()
	}
	ObservePrediction(info.Framework, true)
	writeJSON(w, http.StatusOK, types.PredictResponse{
		Prediction: prediction,
		ModelID:    info.ModelID,
		Framework:  info.Framework,
		Metadata: map[string]any{
			"inference_time_ms": float64(dur.Microseconds()) / 1000.0,
		},
	})
	logPredict(r, http.StatusOK, dur, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

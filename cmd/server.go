package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/discovery-cli/internal/config"
	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/intake"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/monitoring"
	"github.com/sells-group/discovery-cli/internal/report"
	"github.com/sells-group/discovery-cli/internal/scorer"
	"github.com/sells-group/discovery-cli/internal/store"
)

// apiServer holds the handler dependencies for the HTTP API.
type apiServer struct {
	store    store.Store
	gen      *report.Generator
	notion   *export.NotionSync
	metrics  *monitoring.Collector
	rc       report.Config
	maxBody  int64
	lookback int
}

func newAPIServer(e *env, rc report.Config, sc config.ServerConfig, mc config.MonitoringConfig) *apiServer {
	return &apiServer{
		store:    e.Store,
		gen:      e.Generator,
		notion:   e.Notion,
		metrics:  monitoring.NewCollector(e.Store, time.Duration(mc.StaleAfterMins)*time.Minute),
		rc:       rc,
		maxBody:  sc.MaxBodyBytes,
		lookback: max(1, mc.LookbackWindowHours),
	}
}

// newRouter builds the chi router with CORS, request logging and a global
// token-bucket rate limit.
func newRouter(s *apiServer, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if sc.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RateLimit), max(1, sc.RateBurst))))
	}
	if sc.RequestTimeout > 0 {
		r.Use(middleware.Timeout(time.Duration(sc.RequestTimeout) * time.Second))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Get("/catalogue", s.handleCatalogue)
		r.Get("/metrics", s.handleMetrics)

		r.Route("/engagements", func(r chi.Router) {
			r.Post("/", s.handleCreateEngagement)
			r.Get("/", s.handleListEngagements)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetEngagement)
				r.Get("/triggers", s.handleListTriggers)
				r.Post("/pass1", s.handlePass1)
				r.Post("/pass2", s.handlePass2)
				r.Get("/report", s.handleGetReport)
				r.Get("/report.html", s.handleGetReportHTML)
				r.Post("/notion", s.handleNotionSync)
			})
		})
	})

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	hours := s.lookback
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := intParam(v)
		if err != nil || n == 0 {
			writeJSONStatus(w, http.StatusBadRequest, errorBody("invalid hours"))
			return
		}
		hours = n
	}
	snap, err := s.metrics.Collect(r.Context(), hours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, snap)
}

func (s *apiServer) handleScore(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.decodeRespondent(w, r)
	if !ok {
		return
	}
	writeJSONStatus(w, http.StatusOK, s.rc.Build(resp.ID, resp.Responses))
}

func (s *apiServer) handleCatalogue(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]any{
		"services":     scorer.Services(),
		"questions":    scorer.ScoredQuestions(),
		"ruleset_hash": scorer.RulesetHash(),
	})
}

func (s *apiServer) handleCreateEngagement(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.decodeRespondent(w, r)
	if !ok {
		return
	}
	e, err := s.store.CreateEngagement(r.Context(), resp.Client, resp.Responses)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("pass1") == "true" {
		if _, err := s.gen.Pass1(r.Context(), e.ID); err != nil {
			writeError(w, r, err)
			return
		}
		if e, err = s.store.GetEngagement(r.Context(), e.ID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	w.Header().Set("Location", "/v1/engagements/"+e.ID)
	writeJSONStatus(w, http.StatusCreated, e)
}

func (s *apiServer) handleListEngagements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EngagementFilter{Status: model.EngagementStatus(q.Get("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		writeJSONStatus(w, http.StatusBadRequest, errorBody("unknown status"))
		return
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody("invalid limit"))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody("invalid offset"))
		return
	}

	engagements, err := s.store.ListEngagements(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]any{"engagements": engagements, "count": len(engagements)})
}

func (s *apiServer) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetEngagement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, e)
}

func (s *apiServer) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetEngagement(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	triggers, err := s.store.ListTriggers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]any{"triggers": triggers})
}

func (s *apiServer) handlePass1(w http.ResponseWriter, r *http.Request) {
	rep, err := s.gen.Pass1(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, rep)
}

func (s *apiServer) handlePass2(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	rep, err := s.gen.Pass2(r.Context(), chi.URLParam(r, "id"), force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, rep)
}

func (s *apiServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, rep)
}

func (s *apiServer) handleGetReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rep.Narrative == "" {
		writeError(w, r, report.ErrNotReady)
		return
	}
	html, err := report.RenderHTML(rep.Narrative)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *apiServer) handleNotionSync(w http.ResponseWriter, r *http.Request) {
	if s.notion == nil {
		writeJSONStatus(w, http.StatusServiceUnavailable, errorBody("notion is not configured"))
		return
	}
	pageID, err := s.notion.Sync(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]string{"page_id": pageID})
}

// decodeRespondent reads a bounded JSON body. It writes a 400 and returns
// false on failure.
func (s *apiServer) decodeRespondent(w http.ResponseWriter, r *http.Request) (intake.Respondent, bool) {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	resp, err := intake.Decode(body)
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody("invalid request body"))
		return intake.Respondent{}, false
	}
	return resp, true
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case eris.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case eris.Is(err, report.ErrNotReady):
		return http.StatusConflict
	case eris.Is(err, report.ErrIncomplete):
		return http.StatusUnprocessableEntity
	case eris.Is(err, report.ErrNoLLM):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("serve: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeJSONStatus(w, status, errorBody(err.Error()))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// requestLogger logs one line per request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("serve: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// rateLimit rejects requests with 429 once the shared limiter is exhausted.
func rateLimit(lim *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSONStatus(w, http.StatusTooManyRequests, errorBody("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

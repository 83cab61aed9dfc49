package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"pointscalc/internal/attribute"
	"pointscalc/internal/eligibility"
	"pointscalc/internal/goal"
	"pointscalc/internal/metrics"
	"pointscalc/internal/score"
	"pointscalc/internal/session"
)

// maxBodyBytes limits request bodies; an attribute set is far smaller.
const maxBodyBytes = 64 << 10

// ApiV1Router manages routes for API version 1.
// Handles calculator sessions, stateless evaluation, the category catalog
// and static files. All endpoints follow a REST-like structure.
type ApiV1Router struct {
	// engine: applies attribute writes and evaluates attribute sets.
	engine *eligibility.Engine
	// catalog: categories with the points of every option, computed once.
	catalog []score.Category
	// sessions: storage of calculator sessions by token.
	sessions *session.Repository
	// metrics: collectors updated by the handlers; nil disables the endpoint.
	metrics *metrics.Metrics
	// metricsPath: URL path of the metrics endpoint.
	metricsPath string
	// static: path to directory with static files (e.g., the calculator page).
	// If empty, static file serving is disabled.
	static string
	// tokenCookie: name of cookie carrying the session token.
	tokenCookie string
	// defaultGoal: goal of stateless evaluations that do not set one.
	defaultGoal int
}

type sessionResponse struct {
	Token      string                 `json:"token"`
	Attributes attribute.Set          `json:"attributes"`
	Evaluation eligibility.Evaluation `json:"evaluation"`
}

type updateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type goalRequest struct {
	Goal *int `json:"goal"`
}

type evaluateRequest struct {
	Attributes attribute.Set `json:"attributes"`
	Goal       *int          `json:"goal"`
}

// Mux returns a configured *http.ServeMux with registered handlers.
// Registers the following routes:
// - POST /api/v1/sessions: starts a session
// - GET /api/v1/sessions/{token}: current attributes and evaluation
// - DELETE /api/v1/sessions/{token}: discards a session
// - PATCH /api/v1/sessions/{token}/attributes: writes one attribute
// - PUT /api/v1/sessions/{token}/goal: sets the goal
// - GET /api/v1/sessions/{token}/history: recent changes
// - POST /api/v1/evaluate: evaluates an attribute set without a session
// - GET /api/v1/categories: categories, options and points
// - GET /static/...: serves static files (if enabled)
// - GET /metrics: Prometheus metrics (if enabled)
func (ar *ApiV1Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", ar.createSessionHandler)
	mux.HandleFunc("GET /api/v1/sessions/{token}", ar.sessionHandler)
	mux.HandleFunc("DELETE /api/v1/sessions/{token}", ar.deleteSessionHandler)
	mux.HandleFunc("PATCH /api/v1/sessions/{token}/attributes", ar.updateAttributeHandler)
	mux.HandleFunc("PUT /api/v1/sessions/{token}/goal", ar.goalHandler)
	mux.HandleFunc("GET /api/v1/sessions/{token}/history", ar.historyHandler)
	mux.HandleFunc("POST /api/v1/evaluate", ar.evaluateHandler)
	mux.HandleFunc("GET /api/v1/categories", ar.categoriesHandler)

	if len(ar.static) != 0 {
		fs := http.FileServer(http.Dir(ar.static))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	if ar.metrics != nil {
		mux.Handle("GET "+ar.metricsPath, ar.metrics.Handler())
	}

	return mux
}

// createSessionHandler starts a session with the default attribute set and
// hands the token back both in the body and in the session cookie.
func (ar *ApiV1Router) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := ar.sessions.Create()
	slog.Debug("Session created", "token", s.Token)

	http.SetCookie(w, &http.Cookie{
		Name:     ar.tokenCookie,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	ar.writeJSON(w, http.StatusCreated, ar.sessionResponse(s))
}

// sessionHandler returns the attributes and the evaluation of a session.
// If the session is not found, returns status 404.
func (ar *ApiV1Router) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s, found := ar.sessions.Get(r.PathValue("token"))
	if !found {
		slog.Warn("Session not found", "token", r.PathValue("token"))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	ar.writeJSON(w, http.StatusOK, ar.sessionResponse(s))
}

func (ar *ApiV1Router) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	ar.sessions.Delete(r.PathValue("token"))
	w.WriteHeader(http.StatusNoContent)
}

// updateAttributeHandler applies one attribute write to a session and
// returns the recomputed evaluation.
// Expects JSON body {"field": "...", "value": ...}; value may be a string or a boolean.
func (ar *ApiV1Router) updateAttributeHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Warn("Unable to unmarshal attribute request body", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	field, ok := attribute.ParseField(req.Field)
	if !ok {
		slog.Warn("Unknown attribute", "field", req.Field)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	value := attribute.FormatValue(req.Value)

	s, err := ar.sessions.Update(r.PathValue("token"), func(s *session.Session) session.Change {
		s.Attributes = ar.engine.UpdateAttribute(s.Attributes, field, value)
		return session.Change{Field: string(field), Value: value}
	})
	if err != nil {
		ar.writeSessionError(w, r, err)
		return
	}
	slog.Debug("Attribute updated", "token", s.Token, "field", field, "value", value)

	if ar.metrics != nil {
		ar.metrics.ObserveUpdate(string(field))
	}
	ar.writeJSON(w, http.StatusOK, ar.sessionResponse(s))
}

// goalHandler sets the goal of a session. Goals out of range are clamped.
func (ar *ApiV1Router) goalHandler(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(w, r, &req); err != nil || req.Goal == nil {
		slog.Warn("Unable to unmarshal goal request body", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	target := goal.Clamp(*req.Goal)
	s, err := ar.sessions.Update(r.PathValue("token"), func(s *session.Session) session.Change {
		s.Goal = target
		return session.Change{Field: "goal", Value: strconv.Itoa(target)}
	})
	if err != nil {
		ar.writeSessionError(w, r, err)
		return
	}

	ar.writeJSON(w, http.StatusOK, ar.sessionResponse(s))
}

func (ar *ApiV1Router) historyHandler(w http.ResponseWriter, r *http.Request) {
	history, found := ar.sessions.History(r.PathValue("token"))
	if !found {
		slog.Warn("Session not found", "token", r.PathValue("token"))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	ar.writeJSON(w, http.StatusOK, history)
}

// evaluateHandler evaluates an attribute set supplied in the request body.
// Nothing is stored.
func (ar *ApiV1Router) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Warn("Unable to unmarshal evaluate request body", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	target := ar.defaultGoal
	if req.Goal != nil {
		target = *req.Goal
	}

	evaluation := ar.engine.Evaluate(req.Attributes, target)
	if ar.metrics != nil {
		ar.metrics.ObserveEvaluation(metrics.SourceStateless, evaluation.Total)
	}
	ar.writeJSON(w, http.StatusOK, evaluation)
}

func (ar *ApiV1Router) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	ar.writeJSON(w, http.StatusOK, ar.catalog)
}

func (ar *ApiV1Router) sessionResponse(s session.Snapshot) sessionResponse {
	evaluation := ar.engine.Evaluate(s.Attributes, s.Goal)
	if ar.metrics != nil {
		ar.metrics.ObserveEvaluation(metrics.SourceSession, evaluation.Total)
	}
	return sessionResponse{
		Token:      s.Token,
		Attributes: s.Attributes,
		Evaluation: evaluation,
	}
}

func (ar *ApiV1Router) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		slog.Warn("Session not found", "token", r.PathValue("token"))
		w.WriteHeader(http.StatusNotFound)
		return
	}
	slog.Error("Session update", "token", r.PathValue("token"), "error", err)
	w.WriteHeader(http.StatusInternalServerError)
}

func (ar *ApiV1Router) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}

// NewApiV1Router creates a new API v1 router.
// Parameters:
// - engine: evaluates attribute sets
// - catalog: categories served by /api/v1/categories
// - sessions: session storage
// - m: metrics collectors (may be nil)
// - opts: static directory, cookie name, metrics path and default goal
//
// Returns pointer to configured ApiV1Router.
func NewApiV1Router(
	engine *eligibility.Engine,
	catalog []score.Category,
	sessions *session.Repository,
	m *metrics.Metrics,
	opts Options,
) *ApiV1Router {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	return &ApiV1Router{
		engine:      engine,
		catalog:     catalog,
		sessions:    sessions,
		metrics:     m,
		metricsPath: opts.MetricsPath,
		static:      opts.Static,
		tokenCookie: opts.TokenCookie,
		defaultGoal: goal.Clamp(opts.DefaultGoal),
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/agent"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/steptext"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/store"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

// SessionStore loads and saves submission states.
type SessionStore interface {
	Create(ctx context.Context) (*submission.State, error)
	Get(ctx context.Context, id string) (*submission.State, error)
	Save(ctx context.Context, state *submission.State) error
}

// DraftFetcher turns an autofill source into a draft.
type DraftFetcher interface {
	Fetch(ctx context.Context, sessionID string, src autofill.Source) (autofill.Draft, error)
}

// HTTPGateway serves the submission wizard API. Requests for the same
// session run one at a time.
type HTTPGateway struct {
	Addr       string
	Controller *submission.Controller
	Sessions   SessionStore
	Autofill   DraftFetcher
	Sink       submission.Sink
	Logger     *observability.Logger
	// Metrics, when set, is updated per request and served on /metrics.
	Metrics    *observability.Metrics

	locks  *keyedMutex
	router chi.Router
	server *http.Server
}

func NewHTTPGateway(addr string, controller *submission.Controller, sessions SessionStore, fetcher DraftFetcher, sink submission.Sink, logger *observability.Logger) *HTTPGateway {
	g := &HTTPGateway{
		Addr:       addr,
		Controller: controller,
		Sessions:   sessions,
		Autofill:   fetcher,
		Sink:       sink,
		Logger:     logger,
		locks:      newKeyedMutex(),
	}
	g.router = g.routes()
	return g
}

// Handler returns the router.
func (g *HTTPGateway) Handler() http.Handler {
	return g.router
}

func (g *HTTPGateway) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(g.requestLogger)

	r.Get("/metrics", g.serveMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", g.GetCatalog)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", g.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", g.GetSession)
				r.Put("/fields", g.PutFields)
				r.Put("/config", g.PutConfig)
				r.Post("/generate", g.Generate)
				r.Post("/submit", g.Submit)

				r.Post("/autofill", g.FetchAutofill)
				r.Post("/autofill/resolve", g.ResolveAutofill)

				r.Route("/steps", func(r chi.Router) {
					r.Post("/", g.AddStep)
					r.Post("/import", g.ImportSteps)
					r.Post("/reorder", g.ReorderSteps)
					r.Post("/drag", g.DragStep)
					r.Patch("/{stepID}", g.EditStep)
					r.Delete("/{stepID}", g.RemoveStep)
					r.Post("/{stepID}/select", g.SelectStep)
					r.Put("/{stepID}/comment", g.CommentStep)
					r.Get("/{stepID}/content", g.GetContent)
					r.Put("/{stepID}/content", g.PutContent)
				})
			})
		})
	})
	return r
}

func (g *HTTPGateway) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		observability.RecordRequest(ww.Status())
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		g.Metrics.RecordHTTPRequest(r.Method, pattern, ww.Status(), elapsed)
		if g.Logger != nil {
			g.Logger.LogRequest(r.Method, r.URL.Path, ww.Status(), elapsed)
		}
	})
}

func (g *HTTPGateway) serveMetrics(w http.ResponseWriter, r *http.Request) {
	if g.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	g.Metrics.Handler().ServeHTTP(w, r)
}

// Start listens on Addr until Stop is called.
func (g *HTTPGateway) Start() error {
	g.server = &http.Server{
		Addr:              g.Addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("HTTP gateway listening on %s", g.Addr)
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *HTTPGateway) Stop() error {
	if g.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}

// update loads a session, applies fn under the session lock and saves the
// result unless fn fails.
func (g *HTTPGateway) update(w http.ResponseWriter, r *http.Request, status int, fn func(s *submission.State) (any, error)) {
	id := chi.URLParam(r, "sessionID")
	unlock := g.locks.Lock(id)
	defer unlock()

	state, err := g.Sessions.Get(r.Context(), id)
	if err != nil {
		g.writeErr(w, err)
		return
	}
	body, err := fn(state)
	if err != nil {
		g.writeErr(w, err)
		return
	}
	if err := g.Sessions.Save(r.Context(), state); err != nil {
		g.writeErr(w, err)
		return
	}
	if body == nil {
		body = state
	}
	g.writeJSON(w, status, body)
}

func (g *HTTPGateway) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest{err}
	}
	return nil
}

type errBadRequest struct{ err error }

func (e errBadRequest) Error() string { return "invalid request body: " + e.err.Error() }
func (e errBadRequest) Unwrap() error { return e.err }

func statusFor(err error) int {
	var bad errBadRequest
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSessionNotFound), errors.Is(err, submission.ErrUnknownStep):
		return http.StatusNotFound
	case errors.Is(err, submission.ErrNoPendingDraft):
		return http.StatusConflict
	case errors.Is(err, agent.ErrSourceDenied):
		return http.StatusForbidden
	case errors.Is(err, steptext.ErrNoSteps),
		errors.Is(err, submission.ErrEmptyStep),
		errors.Is(err, submission.ErrIncomplete),
		errors.Is(err, autofill.ErrUnknownPolicy),
		errors.Is(err, autofill.ErrUnknownSource):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (g *HTTPGateway) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	g.writeError(w, status, err.Error())
}

func (g *HTTPGateway) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (g *HTTPGateway) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

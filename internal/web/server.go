// Package web serves a form and a JSON API for evaluating arithmetic
// expressions.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/zephyrtronium/arith"
)

// DefaultMaxInput is the default limit on the length of an expression in
// bytes.
const DefaultMaxInput = 4096

// DefaultExpr is the expression the form shows initially.
const DefaultExpr = "3 + 4 * 2 / (1 - 5) ^ 2"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Config configures a Server.
type Config struct {
	// MaxInput limits the length of expressions. Zero means DefaultMaxInput.
	MaxInput int
	// MaxDepth limits nesting in expressions. Zero means the evaluator's
	// default.
	MaxDepth int
	// Native, if non-nil, allows requests to evaluate with a native binary.
	Native *Native
	// Logger receives request logs. Nil means slog.Default.
	Logger *slog.Logger
}

// Server provides the HTTP interface to the evaluator.
type Server struct {
	cfg    Config
	log    *slog.Logger
	router *httprouter.Router
}

// NewServer creates a server with its routes.
func NewServer(cfg Config) *Server {
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = DefaultMaxInput
	}
	s := &Server{
		cfg:    cfg,
		log:    cfg.Logger,
		router: httprouter.New(),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleSubmit)
	s.router.GET("/api/eval", s.handleAPI)
	s.router.POST("/api/eval", s.handleAPI)
	s.router.GET("/health", s.handleHealth)
}

// ServeHTTP logs and routes a request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	s.log.LogAttrs(r.Context(), slog.LevelInfo, "request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.status),
		slog.Duration("duration", time.Since(start)),
	)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// outcome is the result of one evaluation, shared by the form and the API.
type outcome struct {
	Expr   string   `json:"expr"`
	Result string   `json:"result,omitempty"`
	Steps  []string `json:"steps,omitempty"`
	Error  string   `json:"error,omitempty"`
	Native bool     `json:"native,omitempty"`
	// status is the HTTP status for the API.
	status int
}

// evaluate evaluates expr with the Go evaluator, or with the native binary
// if native is set.
func (s *Server) evaluate(ctx context.Context, expr string, trace, native bool) outcome {
	o := outcome{Expr: expr, Native: native, status: http.StatusOK}
	if len(expr) > s.cfg.MaxInput {
		o.Error = "expression longer than " + strconv.Itoa(s.cfg.MaxInput) + " bytes"
		o.status = http.StatusRequestEntityTooLarge
		return o
	}
	if native {
		r, err := s.cfg.Native.Eval(ctx, expr)
		var ne *NativeError
		switch {
		case err == nil:
			o.Result = r
		case errors.As(err, &ne):
			o.Error = ne.Error()
			o.status = http.StatusUnprocessableEntity
		case errors.Is(err, ErrNoNative):
			o.Error = err.Error()
			o.status = http.StatusNotImplemented
		default:
			s.log.ErrorContext(ctx, "native evaluation failed", slog.String("expr", expr), slog.Any("err", err))
			o.Error = err.Error()
			o.status = http.StatusBadGateway
		}
		return o
	}
	opts := []arith.Option{arith.MaxDepth(s.cfg.MaxDepth)}
	var (
		v     float64
		steps []arith.Step
		err   error
	)
	if trace {
		v, steps, err = arith.Steps(expr, opts...)
	} else {
		v, err = arith.Evaluate(expr, opts...)
	}
	for _, st := range steps {
		o.Steps = append(o.Steps, st.String())
	}
	if err != nil {
		o.Error = "syntax error at " + err.Error()
		o.status = http.StatusUnprocessableEntity
		return o
	}
	o.Result = formatResult(v)
	return o
}

// formatResult formats v for display. Infinities and NaN are spelled out
// because JSON cannot represent them.
func formatResult(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// bodyLimit bounds request bodies. Form encoding can triple the length of an
// expression, e.g. "(" becomes "%28", so the limit leaves room for a
// fully escaped expression of MaxInput bytes plus the other fields. Bodies
// within the limit are checked against MaxInput by evaluate.
func (s *Server) bodyLimit() int64 {
	return 3*int64(s.cfg.MaxInput) + 1024
}

type formPage struct {
	Expr      string
	Trace     bool
	Native    bool
	HasNative bool
	Outcome   *outcome
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.render(w, http.StatusOK, formPage{Expr: DefaultExpr, HasNative: s.cfg.Native.Available()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	page := formPage{
		Expr:      r.PostFormValue("expr"),
		Trace:     r.PostFormValue("trace") != "",
		Native:    r.PostFormValue("native") != "",
		HasNative: s.cfg.Native.Available(),
	}
	status := http.StatusOK
	if page.Native && !page.HasNative {
		page.Outcome = &outcome{Expr: page.Expr, Error: ErrNoNative.Error()}
	} else {
		o := s.evaluate(r.Context(), page.Expr, page.Trace, page.Native)
		page.Outcome = &o
		if o.status == http.StatusRequestEntityTooLarge {
			status = o.status
		}
	}
	s.render(w, status, page)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Error: "invalid request: " + err.Error()})
		return
	}
	expr := r.FormValue("expr")
	trace, _ := strconv.ParseBool(r.FormValue("trace"))
	native, _ := strconv.ParseBool(r.FormValue("native"))
	o := s.evaluate(r.Context(), expr, trace, native)
	writeJSON(w, o.status, o)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"native": s.cfg.Native.Available(),
	})
}

func (s *Server) render(w http.ResponseWriter, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "index.html", page); err != nil {
		s.log.Error("rendering page", slog.Any("err", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Package webui serves the BTST dashboard page and its JSON API.
//
// Routes:
//
//	GET  /                  dashboard page (?customer=)
//	POST /upload            replace the sheet with an uploaded workbook
//	GET  /api/dashboard     dashboard.Result as JSON (?customer=)
//	GET  /api/customers     customer filter choices, "All" first
//	POST /api/reload        reload from the configured source
//	GET  /healthz           cached sheet status; 503 until a sheet is loaded
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ssaurabh5135/storedashboard/internal/dashboard"
	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/table"
	"github.com/ssaurabh5135/storedashboard/internal/transformer"
)

//go:embed templates/index.tmpl.html
var templates embed.FS

// Dashboard is what the server needs from dashboard.Service.
type Dashboard interface {
	Dashboard(ctx context.Context, customer string) (*dashboard.Result, error)
	Customers(ctx context.Context) ([]string, error)
	Reload(ctx context.Context) error
	Replace(raw *table.Table, origin string) error
	Status() dashboard.Status
}

// Config controls the server.
type Config struct {
	Addr string

	// MaxUploadBytes caps POST /upload bodies. Zero means 32 MiB.
	MaxUploadBytes int64

	// UploadParser picks a parser from the uploaded file's extension. A nil
	// UploadParser disables uploads.
	UploadParser func(ext string) (parser.Parser, error)

	Logger zerolog.Logger
}

// Server routes HTTP requests to a Dashboard.
type Server struct {
	cfg    Config
	dash   Dashboard
	router *mux.Router
	tmpl   *template.Template
	log    zerolog.Logger
}

// bucketColors shades the ageing rows from fresh to stale.
var bucketColors = map[string]string{
	transformer.Bucket0to7:   "#8ceba7",
	transformer.Bucket8to15:  "#fae698",
	transformer.Bucket16to25: "#f7be99",
	transformer.BucketOver25: "#f78e8e",
}

// NewServer constructs a Server with routes and the embedded template.
func NewServer(cfg Config, d Dashboard) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	funcs := template.FuncMap{
		"bucketStyle": func(bucket string) template.CSS {
			c, ok := bucketColors[bucket]
			if !ok {
				return ""
			}
			return template.CSS("background-color:" + c)
		},
	}
	s := &Server{
		cfg:    cfg,
		dash:   d,
		router: mux.NewRouter(),
		tmpl:   template.Must(template.New("index.tmpl.html").Funcs(funcs).ParseFS(templates, "templates/index.tmpl.html")),
		log:    cfg.Logger,
	}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// HTTPServer returns an *http.Server bound to cfg.Addr.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleAPIDashboard).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.handleAPICustomers).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleAPIReload).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

type pageData struct {
	Choices  []string
	Selected string
	Result   *dashboard.Result
	Status   dashboard.Status
	Error    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	selected := customerParam(r)
	data := pageData{
		Choices:  []string{transformer.AllCustomers},
		Selected: selected,
		Status:   s.dash.Status(),
	}

	status := http.StatusOK
	res, err := s.dash.Dashboard(r.Context(), selected)
	if err != nil {
		status = statusFor(err)
		data.Error = err.Error()
	} else {
		data.Result = res
		data.Choices = append(data.Choices, res.Customers...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("webui: render index")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.UploadParser == nil {
		http.Error(w, "uploads are disabled", http.StatusForbidden)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer f.Close()

	p, err := s.cfg.UploadParser(strings.ToLower(filepath.Ext(hdr.Filename)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	raw, err := p.Parse(f)
	if err != nil {
		http.Error(w, "upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.dash.Replace(raw, dashboard.OriginUpload); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.log.Info().Str("file", hdr.Filename).Int("rows", raw.Len()).Msg("webui: sheet uploaded")

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, s.dash.Status())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.dash.Dashboard(r.Context(), customerParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if tag := res.ETag(); tag != "" {
		w.Header().Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAPICustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := s.dash.Customers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"customers": append([]string{transformer.AllCustomers}, cs...),
	})
}

func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	if err := s.dash.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.dash.Status()
	code := http.StatusOK
	if !st.Loaded {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, st)
}

func customerParam(r *http.Request) string {
	c := strings.TrimSpace(r.URL.Query().Get("customer"))
	if c == "" {
		return transformer.AllCustomers
	}
	return c
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transformer.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dashboard.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrNoLoader):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/csv-sentiment/internal/application/analysis"
	appauth "github.com/bryanwahyu/csv-sentiment/internal/application/auth"
	domauth "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/sentiment"
	"github.com/bryanwahyu/csv-sentiment/internal/middleware"
	"github.com/bryanwahyu/csv-sentiment/pkg/respond"
)

const (
	uploadField = "file"
	// room for multipart boundaries and headers on top of the file cap
	multipartOverhead = 1 << 20
	maxFormMemory     = 1 << 20
)

// CORSConfig mirrors the cors section of the config file.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int
}

// Options carries the ambient pieces of the router.
type Options struct {
	Logger         *slog.Logger
	Metrics        *middleware.Metrics
	Health         map[string]middleware.HealthChecker
	CORS           CORSConfig
	MaxUploadBytes int64
}

type Router struct {
	authSvc     *appauth.Service
	analysisSvc *appanalysis.Service
	metrics     *middleware.Metrics
	maxUpload   int64
}

func NewRouter(authSvc *appauth.Service, analysisSvc *appanalysis.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	r := &Router{
		authSvc:     authSvc,
		analysisSvc: analysisSvc,
		metrics:     opts.Metrics,
		maxUpload:   opts.MaxUploadBytes,
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(opts.Metrics.Middleware)
	mux.Use(chimw.Recoverer)
	mux.Use(corsHandler(opts.CORS))

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Post("/token", r.wrap(r.handleToken))
	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.BearerAuth(authSvc, opts.Logger))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})

	return mux
}

// badRequest is a malformed request that never reached a service.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			br   *badRequest
			verr *domain.ValidationError
			perr *domain.ProcessingError
		)
		switch {
		case errors.Is(err, domauth.ErrInvalidCredentials):
			respond.Detail(w, http.StatusUnauthorized, domauth.ErrInvalidCredentials.Error())
		case errors.Is(err, domauth.ErrMissingToken):
			respond.Unauthorized(w, domauth.ErrMissingToken.Error())
		case errors.Is(err, domauth.ErrInvalidToken):
			respond.Unauthorized(w, domauth.ErrInvalidToken.Error())
		case errors.As(err, &br):
			respond.Detail(w, http.StatusBadRequest, br.Error())
		case errors.As(err, &verr):
			respond.Detail(w, http.StatusBadRequest, verr.Error())
		case errors.As(err, &perr):
			respond.Detail(w, http.StatusInternalServerError, perr.Error())
		default:
			respond.Detail(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// POST /token
// Body: form fields username, password (urlencoded or multipart)
func (r *Router) handleToken(w http.ResponseWriter, req *http.Request) error {
	var err error
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		err = req.ParseMultipartForm(maxFormMemory)
	} else {
		err = req.ParseForm()
	}
	if err != nil {
		return &badRequest{msg: fmt.Sprintf("invalid form body: %v", err)}
	}

	// looked up as sent; only exact matches log in
	username := req.PostForm.Get("username")
	password := req.PostForm.Get("password")
	if username == "" || password == "" {
		return &badRequest{msg: "username and password are required"}
	}
	if err := middleware.ValidateUsername(username); err != nil {
		r.metrics.RecordLogin(false)
		return domauth.ErrInvalidCredentials
	}

	tok, err := r.authSvc.Login(req.Context(), appauth.LoginCommand{Username: username, Password: password})
	r.metrics.RecordLogin(err == nil)
	if err != nil {
		return err
	}

	respond.JSON(w, http.StatusOK, tok)
	return nil
}

// POST /analyze
// Body: multipart form with a CSV in field "file"
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if r.maxUpload > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload+multipartOverhead)
	}

	file, header, err := req.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &domain.ValidationError{Err: domain.ErrUploadTooLarge}
		}
		return &badRequest{msg: fmt.Sprintf("multipart field %q is required", uploadField)}
	}
	defer file.Close()

	var src io.Reader = file
	if r.maxUpload > 0 {
		// one byte past the cap is enough for the service to reject it
		src = io.LimitReader(file, r.maxUpload+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return &domain.ProcessingError{Err: err}
	}

	principal, _ := middleware.PrincipalFromContext(req.Context())
	res, err := r.analysisSvc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		Subject:  principal.Subject,
		Filename: middleware.SanitizeString(header.Filename),
		Data:     data,
	})
	r.metrics.RecordBatch(res.Counts, err)
	if err != nil {
		return err
	}

	respond.JSON(w, http.StatusOK, res)
	return nil
}

func corsHandler(cfg CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"WWW-Authenticate"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		// Reflect the caller's origin so credentialed requests stay valid.
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	} else {
		opts.AllowedOrigins = cfg.AllowedOrigins
	}
	return cors.Handler(opts)
}

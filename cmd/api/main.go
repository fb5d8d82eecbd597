package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/csv-sentiment/internal/application"
	appanalysis "github.com/bryanwahyu/csv-sentiment/internal/application/analysis"
	appauth "github.com/bryanwahyu/csv-sentiment/internal/application/auth"
	"github.com/bryanwahyu/csv-sentiment/internal/config"
	"github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
	mysqlp "github.com/bryanwahyu/csv-sentiment/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/csv-sentiment/internal/infra/db/postgres"
	"github.com/bryanwahyu/csv-sentiment/internal/infra/httpserver"
	"github.com/bryanwahyu/csv-sentiment/internal/infra/memory"
	"github.com/bryanwahyu/csv-sentiment/internal/infra/sentiment"
	minioStore "github.com/bryanwahyu/csv-sentiment/internal/infra/storage"
	"github.com/bryanwahyu/csv-sentiment/internal/infra/token"
	"github.com/bryanwahyu/csv-sentiment/internal/logging"
	"github.com/bryanwahyu/csv-sentiment/internal/middleware"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("config load error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.InitLogger(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	checkers := map[string]middleware.HealthChecker{}

	// credential store, fixed for the life of the process
	users, db, err := loadUsers(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	if cfg.UsesDefaultSecret() {
		logger.Warn("using placeholder signing key; set SECRET_KEY for any real deployment")
	}
	issuer, err := token.NewJWT(cfg.Auth.SecretKey)
	if err != nil {
		return err
	}

	clock := application.SystemClock{}
	authSvc := &appauth.Service{
		Users:  users,
		Tokens: issuer,
		Clock:  clock,
		TTL:    cfg.Auth.TokenTTL,
	}

	var opts []sentiment.Option
	if cfg.Sentiment.StripMarkup {
		opts = append(opts, sentiment.WithMarkupStripping())
	}
	analysisSvc := &appanalysis.Service{
		Classifier:     appanalysis.NewClassifier(sentiment.NewVader(opts...)),
		Clock:          clock,
		Logger:         logger,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}

	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		analysisSvc.Archive = store
		checkers["storage"] = store
		logger.Info("upload archive enabled", slog.String("bucket", cfg.Archive.BucketName))
	}

	router := httpserver.NewRouter(authSvc, analysisSvc, httpserver.Options{
		Logger:  logger,
		Metrics: middleware.NewMetrics(),
		Health:  checkers,
		CORS: httpserver.CORSConfig{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server listening", slog.String("addr", addr))
	return runServer(ctx, srv, logger)
}

// loadUsers builds the in-memory credential store from the configured source.
// The returned *sql.DB is nil unless a SQL source was used.
func loadUsers(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*memory.UserStore, *sql.DB, error) {
	var (
		creds []auth.Credential
		db    *sql.DB
		err   error
	)

	switch cfg.Auth.UserSource {
	case config.UserSourceMySQL:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		creds, err = mysqlp.NewUserRepository(db).LoadCredentials(ctx)
	case config.UserSourcePostgres:
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		creds, err = postgresp.NewUserRepository(db).LoadCredentials(ctx)
	default:
		var placeholder bool
		creds, placeholder = cfg.ConfigUsers()
		if placeholder {
			logger.Warn("no users configured; using placeholder credentials",
				slog.String("username", config.DefaultUsername))
		}
	}
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}

	for _, c := range creds {
		if err := middleware.ValidateUsername(c.Username); err != nil {
			logger.Warn("user can never log in", slog.String("username", c.Username), slog.String("error", err.Error()))
		}
	}

	store := memory.NewUserStore(creds)
	if store.Len() == 0 {
		logger.Warn("credential store is empty; every login will fail")
	}
	logger.Info("credential store loaded",
		slog.String("source", cfg.Auth.UserSource),
		slog.Int("users", store.Len()))
	return store, db, nil
}

func runServer(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", slog.String("error", err.Error()))
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

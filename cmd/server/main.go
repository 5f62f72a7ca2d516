package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/config"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/dataservice"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/handler"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/logging"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/observability"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

const instrumentationName = "github.com/akhadeatharv/Crowd-Funding-Project"

// stores はバックエンドごとのリポジトリ一式
type stores struct {
	db       repository.DB
	projects repository.ProjectRepository
	pledges  repository.PledgeRepository
	updates  repository.UpdateRepository
	// hosted は DATA_BACKEND=hosted のときのみ非 nil
	hosted *dataservice.Client
	close  func()
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &stores{
			db:       pool,
			projects: repository.NewPgProjectRepository(pool),
			pledges:  repository.NewPgPledgeRepository(pool),
			updates:  repository.NewPgUpdateRepository(pool),
			close:    pool.Close,
		}, nil
	case config.BackendMemory:
		mem := repository.NewMemoryStore()
		return &stores{
			db:       mem,
			projects: mem.Projects(),
			pledges:  mem.Pledges(),
			updates:  mem.Updates(),
			close:    func() {},
		}, nil
	default:
		client, err := dataservice.New(cfg.DataServiceURL, cfg.DataServiceKey)
		if err != nil {
			return nil, err
		}
		return &stores{
			db:       client,
			projects: repository.NewHostedProjectRepository(client),
			pledges:  repository.NewHostedPledgeRepository(client),
			updates:  repository.NewHostedUpdateRepository(client),
			hosted:   client,
			close:    func() {},
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inst, shutdownTelemetry, err := observability.Init(ctx, observability.Options{
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Stdout:       cfg.TraceStdout,
	})
	if err != nil {
		logging.Fatal("failed to initialise telemetry", "error", err)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to open data store", "backend", cfg.DataBackend, "error", err)
	}
	defer st.close()

	projectService := service.NewTracedProjectService(
		service.NewProjectService(st.projects, st.pledges, st.updates),
		inst.TracerProvider,
	)
	pledgeService := service.NewTracedPledgeService(
		service.NewPledgeService(st.projects, st.pledges),
		inst.TracerProvider,
		inst.Meter(instrumentationName),
	)
	updateService := service.NewTracedUpdateService(
		service.NewUpdateService(st.projects, st.updates),
		inst.TracerProvider,
	)

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)

	h := handler.New(st.db, cfg.FrontendURL)
	projectHandler := handler.NewProjectHandler(projectService)
	pledgeHandler := handler.NewPledgeHandler(pledgeService, projectService)
	updateHandler := handler.NewUpdateHandler(updateService)

	limiter := handler.NewRateLimiter(ctx, cfg.RateLimitPerMinute)

	// 認証必須エンドポイント
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(sessionSecret)(next)
		}
		return auth.DevAuth(next)
	}
	// セッションがあれば識別する（未ログインはハンドラ側で扱う）
	wrapViewer := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.OptionalAuth(sessionSecret)(next)
		}
		return auth.DevAuth(next)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	// プロジェクト API（一覧・詳細は認証不要）
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.Handle("GET /api/projects/{id}", wrapViewer(http.HandlerFunc(projectHandler.Details)))
	mux.HandleFunc("GET /api/projects/{id}/chart", projectHandler.Chart)
	mux.Handle("POST /api/projects", limiter.Middleware(wrapAuth(http.HandlerFunc(projectHandler.Create))))

	// 支援・近況報告
	mux.Handle("POST /api/projects/{id}/pledges", limiter.Middleware(wrapViewer(http.HandlerFunc(pledgeHandler.Create))))
	mux.HandleFunc("GET /api/projects/{id}/updates", updateHandler.List)
	mux.Handle("POST /api/projects/{id}/updates", limiter.Middleware(wrapAuth(http.HandlerFunc(updateHandler.Create))))

	// 認証 API はホスト型バックエンドのみ
	if st.hosted != nil {
		authHandler := handler.NewAuthHandler(service.NewAuthService(st.hosted), handler.AuthConfig{
			SessionSecret: sessionSecret,
			SessionTTL:    cfg.SessionTTL,
			SecureCookie:  strings.HasPrefix(cfg.FrontendURL, "https://"),
		})
		mux.Handle("POST /api/auth/signin", limiter.Middleware(http.HandlerFunc(authHandler.SignIn)))
		mux.Handle("POST /api/auth/signup", limiter.Middleware(http.HandlerFunc(authHandler.SignUp)))
		mux.Handle("POST /api/auth/signout", auth.OptionalAuth(sessionSecret)(http.HandlerFunc(authHandler.SignOut)))
		mux.Handle("GET /api/me", auth.OptionalAuth(sessionSecret)(http.HandlerFunc(authHandler.Me)))
	}

	handler.NewPages(cfg.StaticDir, sessionSecret, cfg.AuthRequired).Register(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.SecurityHeaders(handler.RequestLogger(h.CORS(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "backend", cfg.DataBackend, "auth_required", cfg.AuthRequired)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "error", err)
	}
}

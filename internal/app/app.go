package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/avolkov/url-shortener/internal/auth"
	"github.com/avolkov/url-shortener/internal/config"
	"github.com/avolkov/url-shortener/internal/handler"
	"github.com/avolkov/url-shortener/internal/logger"
	"github.com/avolkov/url-shortener/internal/middleware"
	"github.com/avolkov/url-shortener/internal/proto"
	"github.com/avolkov/url-shortener/internal/service"
	"github.com/avolkov/url-shortener/internal/storage"
	"github.com/avolkov/url-shortener/internal/storage/memory"
	"github.com/avolkov/url-shortener/internal/storage/postgres"
	"github.com/avolkov/url-shortener/internal/worker"
)

// store is the combined storage surface the app wires against. Both the
// in-memory and the Postgres backends satisfy it.
type store interface {
	storage.URLStorage
	storage.AccountStorage
	Ping(ctx context.Context) error
}

type App struct {
	config       *config.Config
	handler      http.Handler
	grpcServer   *grpc.Server
	recorder     *worker.EventRecorderPool
	closeStorage func()
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg.LogLevel)

	var st store
	closeStorage := func() {}

	if cfg.DatabaseDSN != "" {
		pg, err := postgres.NewStorage(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		st = pg
		closeStorage = pg.Close
		log.Info().Msg("Using Postgres storage")
	} else {
		st = memory.NewStorage()
		log.Info().Msg("Using in-memory storage")
	}

	recorder := worker.NewEventRecorderPool(worker.DefaultConfig())
	recorder.Start()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	accountService := auth.NewService(st, jwtService, cfg.DefaultURLLimit)
	quota := service.NewQuotaGuard(st, st)
	allocator := service.NewAllocator(st, recorder)
	urlService := service.NewURLService(st, st, quota, allocator, cfg.BaseURL)
	authMW := middleware.NewAuthMiddleware(jwtService)

	httpHandler := handler.NewHandler(urlService, accountService, st, authMW)

	var grpcServer *grpc.Server
	if cfg.GRPCAddress != "" {
		grpcAuth := middleware.NewGRPCAuthMiddleware(jwtService)
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(grpcAuth.UnaryInterceptor))
		proto.RegisterShortenerServiceServer(grpcServer, handler.NewShortenerGRPCServer(urlService))
	}

	return &App{
		config:       cfg,
		handler:      httpHandler.RegisterRoutes(),
		grpcServer:   grpcServer,
		recorder:     recorder,
		closeStorage: closeStorage,
	}, nil
}

func (a *App) Run() error {
	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", a.config.GRPCAddress)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.config.GRPCAddress, err)
		}

		go func() {
			log.Info().Str("address", a.config.GRPCAddress).Msg("Starting gRPC server")
			if err := a.grpcServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("gRPC server stopped")
			}
		}()
	}

	log.Info().Str("address", a.config.ServerAddress).Msg("Starting HTTP server")
	return http.ListenAndServe(a.config.ServerAddress, a.handler)
}

// Shutdown releases background workers and the storage backend.
func (a *App) Shutdown() {
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}
	a.recorder.Shutdown()
	a.closeStorage()
}

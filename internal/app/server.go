// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"campus-gateway/internal/config"
	"campus-gateway/internal/db"
	"campus-gateway/internal/dispatch"
	authHandler "campus-gateway/internal/handlers/auth"
	directoryHandler "campus-gateway/internal/handlers/directory"
	healthHandler "campus-gateway/internal/handlers/health"
	"campus-gateway/internal/middleware"
	"campus-gateway/internal/pkg/ratelimit"
	"campus-gateway/internal/pkg/session"
	"campus-gateway/internal/pkg/token"
	"campus-gateway/internal/repository/postgres"
	authUsecase "campus-gateway/internal/service/auth"
	"campus-gateway/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpSrv     *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	hubStop     context.CancelFunc
}

func NewServer() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Server{cfg: cfg, engine: gin.New(), logger: logger}, nil
}

func (s *Server) Start() error {
	defer s.logger.Sync()

	// ----- Redis (optional: in-memory fallback when absent) -----
	if s.cfg.RedisAddr != "" {
		client, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       s.cfg.RedisDB,
			PoolSize: 10,
		})
		if err != nil {
			s.logger.Warn("redis unreachable, using in-process session and rate-limit stores",
				zap.Error(err))
		} else {
			s.redisClient = client
			s.logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
		}
	} else {
		s.logger.Warn("no REDIS_ADDR configured, using in-process session and rate-limit stores")
	}

	// ----- Session store & rate limiter -----
	var sessions session.Store
	var limiter ratelimit.Limiter
	policy := ratelimit.Policy{Window: s.cfg.RateLimitWindow, Max: s.cfg.RateLimitMax}
	storeName := "memory"

	if s.redisClient != nil {
		sessions = session.NewRedisStore(s.redisClient, s.cfg.RedisNamespace)
		limiter = ratelimit.NewRedisLimiter(s.redisClient, s.cfg.RedisNamespace, policy, s.logger)
		storeName = "redis"
	} else {
		sessions = session.NewMemoryStore()
		limiter = ratelimit.NewMemoryLimiter(policy)
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Token manager -----
	tokenManager, err := token.NewManager(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Session events hub -----
	hubCtx, hubStop := context.WithCancel(context.Background())
	s.hubStop = hubStop
	hub := ws.NewHub(s.logger)
	go hub.Run(hubCtx)

	// ----- Repositories & services -----
	credRepo := postgres.NewCredentialRepository(pool)
	authService := authUsecase.NewAuthService(
		credRepo,
		tokenManager,
		sessions,
		s.cfg.SessionTTL,
		hub,
		s.logger,
	)

	// ----- Dispatcher -----
	registry := dispatch.NewRegistry()
	authHandler.NewHandler(authService, s.logger).Register(registry)
	directoryHandler.NewHandler(credRepo, s.logger).Register(registry)

	var pinger healthHandler.Pinger
	if s.redisClient != nil {
		pinger = redisPinger{client: s.redisClient}
	}
	healthHandler.NewHandler(storeName, pinger, hub).Register(registry)

	// ----- Router -----
	SetupRouter(s.engine, &Deps{
		Logger:          s.logger,
		Registry:        registry,
		Auth:            middleware.NewAuthMiddleware(authService, s.logger),
		Limiter:         limiter,
		WSHandler:       ws.NewHandler(hub, authService, s.logger),
		Production:      s.cfg.IsProduction(),
		DispatchTimeout: s.cfg.DispatchTimeout,
	})

	s.httpSrv = &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.engine}

	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires, then releases the
// backing stores. Safe to call even when Start never got past wiring.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	if s.hubStop != nil {
		s.hubStop()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisClient != nil {
		if cerr := s.redisClient.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.logger.Info("server stopped")
	return err
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

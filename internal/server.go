package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/config"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/datastore/postgres"
	redisClient "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/datastore/redis"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/event"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/media"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/metrics"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/middleware"
	messageRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/message"
	notificationRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/notification"
	preferenceRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/preference"
	sessionRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/session"
	routesV1 "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/transport/rest"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/transport/socket"
	authUseCase "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/auth"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/chat"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/discovery"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/match"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/notification"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/profile"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/logger"
	"github.com/labstack/echo"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Server struct {
	writer     io.Writer
	log        logrus.FieldLogger
	config     *config.Config
	httpServer *http.Server
	database   *gorm.DB
	redis      *redisClient.RedisClient
	publisher  event.Publisher
	socket     *socket.Client
	metrics    *metrics.Metrics
	useCases   routesV1.UseCases
}

func NewServer(ctx context.Context, w io.Writer, cfg *config.Config) (*Server, error) {
	log := logger.New(cfg.Env, cfg.Get("LOG_LEVEL"), w)
	server := &Server{
		writer:  w,
		log:     log,
		config:  cfg,
		metrics: metrics.New(),
	}

	if err := server.openStores(); err != nil {
		server.closeStores()
		return nil, err
	}

	tokens, prefs, inbox := server.keyValueStores()
	messages := messageRepo.IMessageRepo(messageRepo.NewMemory())
	if server.database != nil {
		messages = messageRepo.New(server.database)
	}

	api := rest.New(cfg.Get("API_BASE_URL"), cfg.GetDuration("HTTP_TIMEOUT", 30*time.Second), tokens, log)
	server.publisher = event.NewPublisher(cfg.Get("NATS_URL"), log)

	var uploader media.Uploader = api
	if endpoint := cfg.Get("S3_ENDPOINT"); endpoint != "" {
		s3, err := media.NewS3Uploader(ctx, endpoint, cfg.Get("S3_REGION"), cfg.Get("S3_BUCKET"),
			cfg.Get("S3_ACCESS_KEY"), cfg.Get("S3_SECRET_KEY"))
		if err != nil {
			server.closeStores()
			return nil, err
		}
		uploader = s3
	}

	policy, err := discovery.ParseFailurePolicy(cfg.Get("ON_ACTION_FAILURE"))
	if err != nil {
		server.closeStores()
		return nil, err
	}
	opts := discovery.Options{
		BatchSize:         cfg.GetInt("DISCOVERY_BATCH_SIZE", 0),
		PrefetchThreshold: cfg.GetInt("DISCOVERY_PREFETCH_THRESHOLD", 0),
		FailurePolicy:     policy,
		MaxRetries:        cfg.GetInt("ACTION_MAX_RETRIES", 0),
	}

	authCase := authUseCase.New(api, tokens, log)
	matchCase := match.NewMatchUseCase(api, server.publisher, server.metrics, log)
	discoveryCase := discovery.New(api, matchCase, opts, server.metrics, log)
	matchCase.OnBlock(discoveryCase.Exclude)
	chatCase := chat.New(api, messages, uploader, server.publisher, server.metrics, log)
	notificationCase := notification.New(api, inbox, prefs, authCase, log)
	profileCase := profile.NewProfileUseCase(prefs)

	if socketURL := cfg.Get("SOCKET_URL"); socketURL != "" {
		server.socket = socket.New(socketURL, socket.ChatNamespace, tokens, log)
		chatCase.Bind(server.socket)
	}

	authCase.OnLogout(func(ctx context.Context) {
		if err := notificationCase.Clear(ctx); err != nil {
			log.WithError(err).Warn("clearing notifications on logout")
		}
		if err := profileCase.Reset(ctx); err != nil {
			log.WithError(err).Warn("resetting onboarding on logout")
		}
		if server.socket != nil {
			_ = server.socket.Close()
		}
	})

	server.useCases = routesV1.UseCases{
		Auth:         authCase,
		Discovery:    discoveryCase,
		Match:        matchCase,
		Chat:         chatCase,
		Notification: notificationCase,
		Profile:      profileCase,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.ServerContext(ctx))
	e.Use(server.metrics.Middleware())
	server.RegisterRoutes(e)

	origins := strings.Split(cfg.Get("CORS_ALLOWED_ORIGINS"), ",")
	server.httpServer = &http.Server{
		Addr: net.JoinHostPort("", cfg.Get("PORT")),
		Handler: cors.New(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}).Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, nil
}

func (s *Server) openStores() error {
	if host := s.config.Get("POSTGRES_HOST"); host != "" {
		level := gormLogger.Warn
		if s.config.Get("LOG_LEVEL") == "debug" {
			level = gormLogger.Info
		}

		dsn := postgres.DSN(s.config.Get("POSTGRES_USER"), s.config.Get("POSTGRES_PASSWORD"),
			s.config.Get("POSTGRES_DB_NAME"), host, s.config.Get("POSTGRES_PORT"))
		db, err := postgres.InitializeDB(dsn, level)
		if err != nil {
			return err
		}
		s.database = db

		dir, err := postgres.MigrationsDir()
		if err != nil {
			return err
		}
		if err := postgres.Migrate(db, dir); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if host := s.config.Get("REDIS_HOST"); host != "" {
		rdb, err := redisClient.Connect(host, s.config.Get("REDIS_PORT"))
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		s.redis = rdb
	}
	return nil
}

// keyValueStores falls back to in-process stores when redis is not configured.
func (s *Server) keyValueStores() (sessionRepo.ITokenStore, preferenceRepo.IPreferenceRepo, notificationRepo.INotificationRepo) {
	if s.redis == nil {
		s.log.Warn("REDIS_HOST not set, session and inbox are kept in memory")
		return sessionRepo.NewMemory(), preferenceRepo.NewMemory(), notificationRepo.NewMemory()
	}
	return sessionRepo.New(s.redis.Client), preferenceRepo.New(s.redis.Client), notificationRepo.New(s.redis.Client, s.log)
}

func (s *Server) closeStores() {
	if s.database != nil {
		if sqlDB, err := s.database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealthCheck)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	routesV1.InitV1Routes(e, s.useCases)
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener first so no request races the teardown of
// the use cases and stores behind it.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.useCases.Discovery.Close()
	s.useCases.Chat.Close()
	if s.socket != nil {
		_ = s.socket.Close()
	}
	if perr := s.publisher.Close(); perr != nil {
		s.log.WithError(perr).Warn("closing event publisher")
	}
	s.closeStores()
	return err
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Run starts the runtime for the environment named by args[1] (DEV when
// absent) and blocks until ctx is cancelled or a component fails.
func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "DEV"
	if len(args) > 1 {
		env = args[1]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server, err := NewServer(ctx, w, cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.StartServer)
	g.Go(func() error {
		return server.useCases.Chat.RunPoller(gctx, cfg.GetDuration("CONVERSATION_POLL_INTERVAL", 30*time.Second))
	})
	if server.socket != nil {
		g.Go(func() error {
			return server.socket.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

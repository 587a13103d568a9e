package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/webmoto/storefront/config"
	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/db"
	"github.com/webmoto/storefront/internal/handlers"
	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/mq"
	"github.com/webmoto/storefront/internal/notify"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/storage"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/internal/views"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	broker     mq.Broker
	stopRelay  context.CancelFunc
	logger     logging.Logger
}

// New connects the backing services and builds the router.
func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*Server, error) {
	mongoClient, database, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	srv := &Server{mongo: mongoClient, logger: logger}

	handler, err := srv.wire(ctx, cfg, database)
	if err != nil {
		_ = srv.close(context.Background())
		return nil, err
	}

	srv.router = chi.NewRouter()
	srv.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	srv.router.Get("/healthz", handlers.Healthz)
	handlers.Router(srv.router, handler)

	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

func (s *Server) wire(ctx context.Context, cfg config.Config, database *mongo.Database) (handlers.Deps, error) {
	passwords, err := auth.NewPasswords(cfg.Auth.PasswordScheme)
	if err != nil {
		return handlers.Deps{}, err
	}

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return handlers.Deps{}, fmt.Errorf("storage: %w", err)
	}
	media := storage.NewMedia(backend)

	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return handlers.Deps{}, err
	}
	s.broker = broker
	var sink notify.Sink = notify.NewLogSink(s.logger)
	if broker != nil {
		sink = notify.NewQueueSink(broker, cfg.MQ.NotifyChannel)
	}
	if _, inProcess := broker.(*mq.Memory); inProcess {
		s.startRelay(broker, cfg.MQ.NotifyChannel)
	}

	renderer, err := views.New()
	if err != nil {
		return handlers.Deps{}, err
	}

	userRepo := store.NewUserRepository(database)
	motoRepo := store.NewMotoRepository(database)
	libraryRepo := store.NewLibraryRepository(database)
	contactRepo := store.NewContactRepository(database)

	return handlers.Deps{
		Views: renderer,
		Sessions: auth.NewAuthenticator(
			auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
			auth.NewCookieCodec(cfg.Auth.CookieSecret, cfg.Auth.CookieSecure, cfg.Auth.SessionTTL),
		),
		Accounts: services.NewUserService(userRepo, libraryRepo, passwords, s.logger),
		Catalog:  services.NewMotoService(motoRepo, media),
		Library:  services.NewLibraryService(libraryRepo, motoRepo),
		Resets:   services.NewPasswordResetService(userRepo, passwords, sink, s.logger, cfg.BaseURL, cfg.Auth.ResetTokenTTL),
		Contacts: services.NewContactService(contactRepo),
		Media:    media,
		Logger:   s.logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires and then releases the connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.close(ctx))
}

// startRelay delivers queued mail inside the server process. The memory
// broker cannot be reached by a separate notifier.
func (s *Server) startRelay(broker mq.Broker, channel string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopRelay = cancel
	relay := notify.NewRelay(broker, channel, notify.NewLogSink(s.logger), s.logger)
	go func() {
		if err := relay.Run(ctx); err != nil {
			s.logger.Error(ctx, "mail relay stopped", "error", err)
		}
	}()
}

func (s *Server) close(ctx context.Context) error {
	if s.stopRelay != nil {
		s.stopRelay()
	}
	var errs []error
	if s.broker != nil {
		errs = append(errs, s.broker.Close())
	}
	if s.mongo != nil {
		errs = append(errs, s.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

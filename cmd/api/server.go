package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"blog-api/cmd/api/router"
	"blog-api/cmd/api/services"
	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/eventbus"
	"blog-api/cmd/internal/logger"
	"blog-api/config"
	"blog-api/db"
	"blog-api/repositories"
)

// runServe runs the startup sequence: connect the store, build the API and
// only then start listening. A failed connection aborts before any listener exists.
func runServe(ctx context.Context, cfg config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoWithFields("connecting to store", logger.Fields{"state": db.Connecting.String(), "db": cfg.Mongo.DBName})
	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.ErrorWithFields("store connection failed", logger.Fields{"state": db.Failed.String(), "error": err.Error()})
		return fmt.Errorf("startup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := db.Disconnect(shutdownCtx); err != nil {
			logger.WarnWithFields("mongo disconnect failed", logger.Fields{"error": err.Error()})
		}
	}()
	logger.InfoWithFields("store connected", logger.Fields{"state": db.CurrentState().String()})

	bus, err := newEventBus(cfg.Events)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer bus.Close()

	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	svc := services.NewBlogService(repositories.NewBlogRepository(db.Database()), bus, cfg.Events)
	engine := router.New(router.Deps{Blogs: svc, Ping: db.Ping})
	handler := newHTTPHandler(engine, cfg.Server)

	addr := cfg.Server.ListenAddr()
	if addr == "" {
		// 플랫폼이 자체 리스너를 주입하는 환경: 바인딩 없이 종료 신호까지 대기한다.
		logger.WarnWithFields("PORT is not set; the API is built but no listener is bound", logger.Fields{"state": db.CurrentState().String()})
		<-ctx.Done()
		return nil
	}

	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	db.MarkListening()
	go func() {
		logger.InfoWithFields("listening", logger.Fields{"addr": addr, "h2c": cfg.Server.H2C, "state": db.CurrentState().String()})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// newEventBus returns a Kafka publisher when brokers are configured.
func newEventBus(cfg config.EventsConfig) (eventbus.EventBus, error) {
	if cfg.Brokers == "" {
		logger.Log.Info("no Kafka brokers configured; blog events are not published")
		return eventbus.NopEventBus{}, nil
	}
	bus, err := eventbus.NewKafkaEventBus(cfg.Brokers)
	if err != nil {
		return nil, err
	}
	logger.InfoWithFields("publishing blog events", logger.Fields{"brokers": cfg.Brokers, "topic": cfg.Topic})
	return bus, nil
}

// newHTTPHandler wraps the gin engine with CORS and, when enabled, HTTP/2 cleartext.
func newHTTPHandler(engine http.Handler, cfg config.ServerConfig) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID},
	})
	handler := c.Handler(engine)
	if cfg.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	return handler
}

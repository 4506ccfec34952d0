package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"motel-backend/config"
	"motel-backend/controllers"
	"motel-backend/logger"
	"motel-backend/notify"
	"motel-backend/routes"
	"motel-backend/scheduler"
	"motel-backend/services"
	"motel-backend/store"
)

func openStore(cfg *config.Config, zlog *zap.Logger) (store.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		zlog.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := config.ConnectDatabase(cfg.Database, cfg.Log.Level, zlog)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "motel-backend")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("store init failed", zap.Error(err))
	}
	if cfg.SeedData {
		if err := config.SeedDatabase(ctx, st, zlog); err != nil {
			zlog.Fatal("seeding failed", zap.Error(err))
		}
	}

	sinks := notify.Multi{notify.NewLogSink(zlog)}
	rdb, err := config.NewRedis(ctx, cfg.Redis)
	switch {
	case err != nil:
		zlog.Warn("redis unavailable; notifications go to the log only", zap.Error(err))
	case rdb != nil:
		defer func() { _ = rdb.Close() }()
		sinks = append(sinks, notify.NewRedisSink(rdb, cfg.Redis.Stream, zlog))
		zlog.Info("publishing notifications to redis", zap.String("stream", cfg.Redis.Stream))
	}

	// Services
	roomSvc := services.NewRoomService(st, zlog, sinks)
	roomTypeSvc := services.NewRoomTypeService(st)
	staySvc := services.NewStayService(st, roomSvc, services.NewPaymentAllocator(nil), services.SystemClock{}, zlog, sinks)

	sweeper := scheduler.NewToleranceScheduler(staySvc, cfg.Scheduler.ToleranceSweepInterval, zlog)
	go sweeper.Start(ctx)

	router := routes.SetupRouter(routes.Controllers{
		Rooms:     controllers.NewRoomController(roomSvc),
		RoomTypes: controllers.NewRoomTypeController(roomTypeSvc),
		Stays:     controllers.NewStayController(staySvc),
	}, cfg.HTTP.CORSOrigins, zlog)

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		return
	}
	zlog.Info("server stopped gracefully")
}

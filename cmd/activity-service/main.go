package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/app/background"
	"github.com/LavaJover/shvark-activity-service/internal/app/setup"
	"github.com/LavaJover/shvark-activity-service/internal/config"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser := logger.Setup("activity-service", cfg.LogConfig)

	err := run(cfg)
	if err != nil {
		slog.Error("service stopped with error", "error", err.Error())
	}
	// flush the log file before exiting
	logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.ActivityConfig) error {
	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "init dependencies")
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	ucs := setup.InitializeUseCases(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := background.NewBackgroundTasks(
		ucs.CouponUsecase,
		ucs.GroupUsecase,
		cfg.Engine.ExpirySweepInterval,
		cfg.Engine.GroupSweepInterval,
	)
	tasks.StartAll(ctx)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(deps.Redis, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, handlers.RateLimitedResponse())
	})
	router := handlers.NewRouter(handlers.RouterDeps{
		Coupons:        handlers.NewCouponHandler(ucs.CouponUsecase),
		Redemptions:    handlers.NewRedemptionHandler(ucs.RedemptionUsecase),
		Groups:         handlers.NewGroupHandler(ucs.GroupUsecase),
		Activities:     handlers.NewActivityHandler(ucs.PresaleUsecase, ucs.StoreUsecase, ucs.ActivityUsecase),
		Limiter:        limiter,
		LimitRequests:  cfg.RateLimit.Requests,
		LimitWindow:    cfg.RateLimit.Window,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Gatherer:       deps.Registry,
		Ping:           deps.PingDB,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// Creating gRPC server
	grpcServer := grpc.NewServer()
	health := grpcapi.NewHealthReporter(deps.PingDB)
	health.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		return pkgerrors.Wrap(err, "listen grpc")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("grpc server started", "addr", lis.Addr().String())
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		health.Run(gctx, 15*time.Second)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

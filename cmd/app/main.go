package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"coivault/cmd/fx/account_fx"
	"coivault/cmd/fx/billing_fx"
	"coivault/cmd/fx/config_fx"
	"coivault/cmd/fx/controllers_fx"
	"coivault/cmd/fx/dashboard"
	"coivault/cmd/fx/db_fx"
	"coivault/cmd/fx/mail_fx"
	"coivault/cmd/fx/memcache_fx"
	"coivault/cmd/fx/metrics_fx"
	"coivault/cmd/fx/ratelimit_fx"
	"coivault/cmd/fx/vendor_fx"
	"coivault/internal/api/controllers"
	"coivault/internal/config"
	"coivault/pkg/metrics"
	"coivault/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		db_fx.Module,
		memcache_fx.Module,
		metrics_fx.Module,
		ratelimit_fx.Module,
		account_fx.Module,
		vendor_fx.Module,
		dashboard.Module,
		billing_fx.Module,
		mail_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	ctl controllers.Controllers,
	guards controllers.Guards,
	m *metrics.Metrics,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AppURL))
	r.Use(m.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	controllers.RegisterRoutes(r, ctl, guards)

	return r
}

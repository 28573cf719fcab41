package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/storefront/internal/asset"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/editor"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/smallbiznis/storefront/internal/query"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(p.Log.Named("http")))
	r.Use(metrics.GinMiddleware(p.HTTP))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	log        *zap.Logger
	editor     *editor.Service
	products   productdomain.Service
	references referencedomain.Repository
	query      *query.Engine
	assets     *asset.Manager
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Log        *zap.Logger
	Editor     *editor.Service
	Products   productdomain.Service
	References referencedomain.Repository
	Query      *query.Engine
	Assets     *asset.Manager
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		log:        p.Log.Named("http.server"),
		editor:     p.Editor,
		products:   p.Products,
		references: p.References,
		query:      p.Query,
		assets:     p.Assets,
	}

	svc.RegisterRoutes()
	return svc
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/products", s.ListProducts)
		api.POST("/products", s.CreateProduct)
		api.GET("/products/:id", s.GetProductByID)
		api.PUT("/products/:id", s.UpdateProduct)
		api.DELETE("/products/:id", s.DeleteProduct)
		api.DELETE("/products/:id/photo", s.DeleteProductPhoto)
		api.GET("/products/:id/photo/preview", s.PreviewProductPhoto)

		api.POST("/uploads", s.UploadPhoto)

		api.GET("/references", s.ListReferences)
	}
}

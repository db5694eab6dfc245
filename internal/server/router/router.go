package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/server/handlers"
)

// Options configures the cross-cutting parts of the engine.
type Options struct {
	AllowedOrigins []string
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// New wires the Gin engine with required routes and middlewares. alerts may be nil.
func New(inv *handlers.InventoryHandler, alerts *handlers.AlertHandler, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(opts.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := r.Group("/api")

	stock := api.Group("/stock")
	stock.GET("", inv.ListStock)
	stock.POST("", inv.CreateStock)
	stock.GET("/groups", inv.StockGroups)
	stock.GET("/totals", inv.StockTotals)
	stock.GET("/expiring", inv.Expiring)
	stock.GET("/export", inv.ExportStock)
	stock.PUT("/:id", inv.UpdateStock)
	stock.DELETE("/:id", inv.DeleteStock)
	stock.POST("/:id/use", inv.UseStock)
	stock.POST("/:id/exhaust", inv.ExhaustStock)
	stock.POST("/:id/transfer", inv.TransferStock)

	locations := api.Group("/locations")
	locations.GET("", inv.ListLocations)
	locations.POST("", inv.CreateLocation)
	locations.PUT("/:id", inv.UpdateLocation)
	locations.DELETE("/:id", inv.DeleteLocation)

	api.GET("/logs", inv.ListLogs)
	api.POST("/logs", inv.AppendLog)
	api.GET("/minimums", inv.ListMinimums)
	api.PUT("/minimums", inv.SetMinimum)
	api.POST("/refresh", inv.Refresh)

	if alerts != nil {
		api.GET("/alerts/digest", alerts.Digest)
		api.POST("/alerts/digest", alerts.SendDigest)
		api.POST("/alerts/send-message", alerts.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

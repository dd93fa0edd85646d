package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Coupons        *CouponHandler
	Redemptions    *RedemptionHandler
	Groups         *GroupHandler
	Activities     *ActivityHandler
	Limiter        *middleware.RateLimiter
	LimitRequests  int
	LimitWindow    time.Duration
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	// Ping reports storage health for /healthz.
	Ping func(ctx context.Context) error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		config.AllowOrigins = deps.AllowedOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.ClientIDHeader}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/healthz", healthz(deps.Ping))
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	limit := func(name string) gin.HandlerFunc {
		if deps.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return deps.Limiter.Limit(name, deps.LimitRequests, deps.LimitWindow)
	}

	api := r.Group("/api/v1")
	{
		activities := api.Group("/activities/:id")
		{
			activities.POST("/claim", limit("claim"), deps.Coupons.Claim)
			activities.POST("/groups", limit("group_create"), deps.Groups.Create)
			activities.GET("/groups", deps.Groups.List)
			activities.POST("/presale", limit("presale"), deps.Activities.Reserve)
			activities.GET("/stores/nearby", deps.Activities.NearbyStores)
			activities.GET("/stats", deps.Activities.Stats)
		}
		redemptions := api.Group("/redemptions")
		{
			redemptions.POST("/scan", limit("redeem"), deps.Redemptions.Scan)
			redemptions.POST("/manual", limit("redeem"), deps.Redemptions.Manual)
			redemptions.POST("/:id/cancel", deps.Redemptions.Cancel)
		}
		api.POST("/groups/:id/join", limit("group_join"), deps.Groups.Join)

		users := api.Group("/users/:id")
		{
			users.GET("/coupons", deps.Coupons.ListByUser)
			users.POST("/coupons/read", deps.Coupons.MarkRead)
		}
		api.POST("/coupons/:id/expire", deps.Coupons.Expire)
	}

	return r
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

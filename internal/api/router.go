// Package api exposes the simulator over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"site-energy-sim/internal/api/handlers"
	"site-energy-sim/internal/api/middleware"
	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/api/ws"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/optimiser"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/store"
)

// Deps are the long lived collaborators the router serves from. Cache and
// Store may be nil.
type Deps struct {
	Simulator        *scenario.Simulator
	SiteDigest       string
	TariffPercentile float64
	Cache            data.ResultCache
	Store            *store.Store
	Workers          int
	LeagueSize       int
	AllowedOrigins   []string
	Logger           *zap.Logger
	// Registry defaults to a fresh registry. Pass one to share it with
	// other collectors.
	Registry *prometheus.Registry
}

// NewRouter wires handlers and middleware onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Metrics(reg))

	hub := ws.NewHub(log)
	site := d.Simulator.Site()

	simHandler := handlers.NewSimulationHandler(d.Simulator)
	siteHandler := handlers.NewSiteHandler(site, d.SiteDigest, d.TariffPercentile)
	optHandler := handlers.NewOptimiseHandler(handlers.OptimiseDeps{
		Simulator:  d.Simulator,
		SiteDigest: d.SiteDigest,
		Cache:      d.Cache,
		Store:      d.Store,
		Hub:        hub,
		Metrics:    optimiser.NewMetrics(reg),
		Workers:    d.Workers,
		LeagueSize: d.LeagueSize,
		Logger:     log,
	})
	wsHandler := ws.NewHandler(hub, ws.HelloPayload{SiteDigest: d.SiteDigest, Timesteps: site.Timesteps()}, d.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/ws", gin.WrapH(wsHandler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/site", siteHandler.GetSite)
		v1.GET("/site/tariffs", siteHandler.RankTariffs)
		v1.GET("/battery-modes", handlers.ListBatteryModes)
		v1.GET("/baseline", simHandler.Baseline)

		v1.POST("/validate", simHandler.Validate)
		v1.POST("/capex", simHandler.Capex)
		v1.POST("/simulate", simHandler.Simulate)
		v1.POST("/simulate/full", simHandler.SimulateFull)

		v1.POST("/optimise", optHandler.Optimise)
		v1.GET("/league", optHandler.League)
		v1.GET("/league/tasks/:index", optHandler.Recall)
		v1.GET("/runs", optHandler.ListRuns)
		v1.GET("/runs/:id", optHandler.GetRun)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: models.CodeNotFound, Message: "Not found"},
		})
	})
	return router
}

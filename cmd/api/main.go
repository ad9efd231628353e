package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"site-energy-sim/internal/api"
	"site-energy-sim/internal/app"
	"site-energy-sim/internal/config"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("SIM_CONFIG"), "Path to YAML config")
	flag.Parse()

	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "--config (or SIM_CONFIG) is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if port := os.Getenv("API_PORT"); port != "" {
		cfg.API.Port = port
	}

	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to load site", zap.Error(err))
	}
	defer a.Close()

	st, err := a.OpenStore()
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	if _, err := a.Simulator.Baseline(); err != nil {
		log.Fatal("failed to simulate baseline", zap.Error(err))
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := api.NewRouter(api.Deps{
		Simulator:        a.Simulator,
		SiteDigest:       a.Site.Digest,
		TariffPercentile: cfg.Simulation.TariffPercentile,
		Cache:            a.Cache,
		Store:            st,
		Workers:          cfg.Optimiser.Workers,
		LeagueSize:       cfg.Optimiser.LeagueSize,
		AllowedOrigins:   cfg.API.AllowedOrigins,
		Logger:           log,
		Registry:         reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.API.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

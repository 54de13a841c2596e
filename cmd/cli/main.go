package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/securematch/internal/buildinfo"
	"github.com/dmitrijs2005/securematch/internal/client/access"
	"github.com/dmitrijs2005/securematch/internal/client/cli"
	"github.com/dmitrijs2005/securematch/internal/client/client"
	"github.com/dmitrijs2005/securematch/internal/client/config"
	"github.com/dmitrijs2005/securematch/internal/client/identity"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/client/output"
	"github.com/dmitrijs2005/securematch/internal/client/services"
	"github.com/dmitrijs2005/securematch/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	c, err := client.NewHTTPClient(cfg.ServerURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
		client.WithPrometheus(reg),
	)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	mode, err := output.ParseColorMode(cfg.ColorMode)
	if err != nil {
		log.Fatalf("%v", err)
	}
	printer := output.NewPrinter(os.Stdout, os.Stderr, mode)

	store := identity.NewStore()
	auditors := services.NewAuditorService(c, logger)
	machine := access.NewMachine(auditors, store, logger)
	search := services.NewSearchService(c, logger,
		services.WithStageDelay(cfg.StageDelay),
		services.WithProgress(func(_ uuid.UUID, e models.ProgressEntry) {
			printer.ProgressLine(e)
		}),
	)

	app := cli.NewApp(cfg, machine, search, auditors, printer, bufio.NewReader(os.Stdin))
	app.Run(ctx)

}

func serveMetrics(addr string, reg *prometheus.Registry, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "metrics listener stopped", "addr", addr, "error", err)
		}
	}()
	return srv
}

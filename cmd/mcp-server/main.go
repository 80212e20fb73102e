package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/barcarate/internal/adapters/mcp"
	service "github.com/okian/barcarate/internal/app"
	"github.com/okian/barcarate/internal/config"
	"github.com/okian/barcarate/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	httpAddr := flag.String("http", "", "serve streamable HTTP on this address instead of stdio")
	mcpPath := flag.String("path", "/mcp", "HTTP path for the MCP endpoint")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr.
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Get()

	// Tools are synchronous; the worker pool is not started.
	svc, err := service.New(ctx,
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(1),
		service.WithQueueSize(1),
		service.WithRosterFile(cfg.RosterFile),
		service.WithPoolFile(cfg.PoolFile),
		service.WithCacheConfig(cfg.Cache.Factory()),
		service.WithCacheTTL(cfg.Cache.TTL),
		service.WithAnalysisTTL(cfg.AnalysisTTL),
		service.WithThresholds(cfg.Thresholds),
		service.WithScoreCap(cfg.Scoring.ScoreCap),
	)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = svc.Stop(context.Background()) }()

	server := mcp.NewServer(svc)

	if *httpAddr == "" {
		if err := server.Run(ctx); err != nil {
			log.Error(ctx, "mcp server failed", logger.Error(err))
		}
		return
	}

	handler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return server.MCP()
	}, &mcpsdk.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.Handle(*mcpPath, handler)
	srv := &http.Server{Addr: *httpAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info(ctx, "MCP HTTP server listening", logger.String("addr", *httpAddr), logger.String("path", *mcpPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "MCP HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "MCP HTTP shutdown failed", logger.Error(err))
	}
}

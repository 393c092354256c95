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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shardlite/shardlite/api"
	"github.com/shardlite/shardlite/collect"
	"github.com/shardlite/shardlite/config"
	"github.com/shardlite/shardlite/logger"
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/operators"
	"github.com/shardlite/shardlite/pool"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/sys"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting node",
		"node_id", cfg.NodeID,
		"data_dir", cfg.DataDir,
		"http_addr", cfg.HTTPAddr)

	functions := metadata.NewFunctions()
	operators.RegisterAll(functions)

	registry := metadata.NewRegistry(nil)
	sys.RegisterNodeExpressions(registry, cfg.NodeID, cfg.NodeName)

	shards := shard.NewManager(cfg.DataDir)
	defer func() {
		if err := shards.CloseAll(); err != nil {
			logger.Error("closing shards", "error", err)
		}
	}()

	workerPool := pool.NewWorkerPool(cfg.PoolWorkers, cfg.PoolQueueDepth)
	defer workerPool.Close()

	operation := collect.NewLocalCollectOperation(cfg.NodeID, functions, registry, shards, workerPool)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	api.NewHandler(cfg.NodeID, operation, registry, functions, shards).RegisterRoutes(r)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}

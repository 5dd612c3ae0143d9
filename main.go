package main

import (
	"fmt"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"inheritance-engine/internal/config"
	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/handler"
	"inheritance-engine/internal/logging"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger failed: %v", err)
	}
	defer logger.Sync()

	h := handler.New(engine.New(cfg.EngineOptions()), logger, nil)
	server := &fasthttp.Server{
		Handler:            h.Handle,
		Name:               "inheritance-engine",
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		MaxRequestBodySize: cfg.MaxBodySize,
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Inheritance engine starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(addr); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

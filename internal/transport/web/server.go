package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/rakshil17/SENG3011-OMEGA/internal/config"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/files"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/health"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/news"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/stock"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, deps Deps) *Server {
	filesLog := log.New(logger.Writer(), logger.Prefix()+"[files] ", logger.Flags())
	newsLog := log.New(logger.Writer(), logger.Prefix()+"[news] ", logger.Flags())
	stockLog := log.New(logger.Writer(), logger.Prefix()+"[stock] ", logger.Flags())
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())

	filesHandler := &files.Handler{
		Log:        filesLog,
		Engine:     deps.Engine,
		Cache:      deps.Cache,
		PayloadTTL: 60,
	}
	newsHandler := &news.Handler{Log: newsLog, Collector: deps.Refresher}
	stockHandler := &stock.Handler{Log: stockLog, Collector: deps.Stocks, Jobs: deps.Jobs}
	healthHandler := &health.Handler{Log: healthLog, DB: deps.DB, Cache: deps.Cache, Storage: deps.Storage}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(filesHandler, newsHandler, stockHandler, healthHandler, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}

// Entry point for the yojana question-answering service: chi router over
// the ask pipeline, SQLite-backed scheme and volunteer stores, optional
// MCP stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/janmitra/yojana/ask"
	"github.com/janmitra/yojana/dbopen"
	"github.com/janmitra/yojana/linkcheck"
	"github.com/janmitra/yojana/llm"
	"github.com/janmitra/yojana/observability"
	"github.com/janmitra/yojana/qcache"
	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/volunteer"
	"github.com/janmitra/yojana/websearch"
)

func main() {
	cfgPath := "yojana.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// App DB: scheme records and volunteers.
	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(scheme.Schema),
		dbopen.WithSchema(volunteer.Schema),
	)
	if err != nil {
		slog.Error("app db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Observability DB (separate file to avoid write contention).
	obsPath := filepath.Join(filepath.Dir(cfg.DBPath), "observability.db")
	obsDB, err := dbopen.Open(obsPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(observability.Schema),
	)
	if err != nil {
		slog.Error("observability db", "error", err)
		os.Exit(1)
	}
	defer obsDB.Close()
	events := observability.NewEventLogger(obsDB)

	// Pipeline components.
	schemes := scheme.NewStore(db)
	volunteers := volunteer.NewStore(db)
	resolver := scheme.NewResolver(
		schemes,
		scheme.NewRegistry(cfg.RegistryURL, nil),
		scheme.NewPortal(cfg.PortalURL, nil),
		logger,
	)
	search := websearch.New(cfg.Search, nil)
	model := llm.New(cfg.LLM, nil)
	cache := qcache.New[*ask.Response](cfg.CacheTTL.Std())
	svc := ask.NewService(cache, model, resolver, search, events, logger)
	verifier := linkcheck.New(nil)

	// Optional MCP stdio transport, served alongside HTTP.
	if cfg.MCPTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "yojana",
			Version: "1.0.0",
		}, nil)
		ask.RegisterMCP(mcpSrv, svc, verifier)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           newRouter(svc, verifier, schemes, volunteers),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

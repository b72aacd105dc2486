// README: Entry point; loads config, wires the flight pipeline, and serves POST /chat.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"flightchat/internal/config"
	httptransport "flightchat/internal/http"
	"flightchat/internal/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, closeLLM, err := infra.NewToolCaller(ctx, cfg)
	if err != nil {
		log.Fatalf("ai init: %v", err)
	}
	defer closeLLM()

	flightSvc := infra.NewFlightService(cfg, llm)

	gin.SetMode(gin.ReleaseMode)
	handler := httptransport.NewRouter(flightSvc, httptransport.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("flightchat listening on %s (ai=%s, normalize=%s)", cfg.HTTP.Addr, cfg.AI.Provider, cfg.Normalize)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

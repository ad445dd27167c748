// Command chesslite-server serves self-play games and move selection over
// HTTP with a websocket event stream.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/chesslite/internal/server"
	"github.com/hailam/chesslite/internal/storage"
)

var (
	addr   = flag.String("addr", ":8080", "listen address")
	dbDir  = flag.String("db", "", "database directory (default: the user data directory)")
	memory = flag.Bool("memory", false, "keep games in memory only")
)

func main() {
	flag.Parse()

	store, err := openStorage()
	if err != nil {
		log.Fatalf("[server] open storage: %v", err)
	}
	defer store.Close()

	srv := server.New(store)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("[server] listening on %s", *addr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[server] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[server] graceful shutdown failed: %v", err)
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[server] forced close failed: %v", closeErr)
		}
	}

	// Running games stop between plies and are stored as aborted.
	srv.Close()

	if runErr != nil {
		log.Printf("[server] exiting after server error: %v", runErr)
	}
}

func openStorage() (*storage.Storage, error) {
	switch {
	case *memory:
		return storage.OpenInMemory()
	case *dbDir != "":
		return storage.Open(*dbDir)
	default:
		return storage.NewStorage()
	}
}

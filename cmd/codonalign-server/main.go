// Command codonalign-server provides a REST API for pairwise codon-aware
// alignment.
//
// Usage:
//
//	codonalign-server [options]
//
// Options:
//
//	-port     Port to listen on (default: 8080)
//	-host     Host to bind to (default: localhost)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/codonalign-go/api/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	flag.Parse()

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/alignment", func(r chi.Router) {
			r.Post("/pairwise", handlers.PairAlignHandler)
			r.Post("/score", handlers.PairScoreHandler)
			r.Post("/sample", handlers.PairSampleHandler)
		})
	})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>CodonAlign API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>CodonAlign API</h1>
    <p>A REST API for statistical pairwise alignment under a marginal codon model.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/pairwise</code>
        <p>Align a pair of sequences. The first sequence is treated as the ancestor.</p>
        <pre>{"name1": "anc", "seq1": "CTCTGGATAGTG", "name2": "des", "seq2": "CTATAGTG"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Re-score an existing alignment. Both sequences must have equal length.</p>
        <pre>{"name1": "anc", "seq1": "CTCTGGAT", "name2": "des", "seq2": "CTCT--AT"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/sample</code>
        <p>Draw alignments proportionally to their probability.</p>
        <pre>{"name1": "anc", "seq1": "CTCTGGATAGTG", "name2": "des", "seq2": "CTATAGTG", "n": 10, "seed": 42}</pre>
    </div>

    <p>For more information, see the <a href="https://github.com/aria-lang/codonalign-go">documentation</a>.</p>
</body>
</html>`))
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("CodonAlign API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}

// Package main implements a mock price-comparison listing server for local
// development. It serves canned listing pages from HTML fixtures so the
// refresh scheduler can be exercised without scraping the real site.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureDir := flag.String("fixtures", "tools/mock-listing/testdata", "directory of listing page fixtures")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixtures, err := loadFixtures(*fixtureDir)
	if err != nil {
		logger.Error("failed to load fixtures", "dir", *fixtureDir, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixtures", "pages", len(fixtures))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", listingHandler(logger, fixtures))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock listing server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadFixtures maps each *.html file in dir to a request path derived from
// its base name: testdata/prezzi_mouse.html serves /prezzi_mouse.
func loadFixtures(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fixture directory: %w", err)
	}

	fixtures := make(map[string][]byte)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // fixture dir from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading fixture %s: %w", name, err)
		}
		fixtures["/"+strings.TrimSuffix(name, ".html")] = data
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no *.html fixtures in %s", dir)
	}
	return fixtures, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func listingHandler(logger *slog.Logger, fixtures map[string][]byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := fixtures[strings.TrimSuffix(r.URL.Path, "/")]
		if !ok {
			logger.Warn("no fixture for path", "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

package main

import (
	"context"
	"flag"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	httpadapter "peeler.dev/peeler/internal/adapters/http"
	"peeler.dev/peeler/internal/adapters/ocr"
	"peeler.dev/peeler/internal/dictionary"
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/incremental"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/solver"
	"peeler.dev/peeler/internal/swap"
	"peeler.dev/peeler/internal/usecase"
	"peeler.dev/peeler/web"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes, and duration.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		dur := time.Since(start)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", dur.Round(time.Millisecond),
		)
	})
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dictPath := flag.String("dict", "./wordlist.txt", "newline-delimited dictionary path")
	levelStr := flag.String("log-level", "info", "debug|info|warn|error")
	canonStr := flag.String("canon", "translation", "snapshot canonicalization: translation|dihedral8")
	seed := flag.Int64("seed", 1, "deterministic RNG seed for pool draws and swap simulation")
	initialHand := flag.String("initial-hand", "", "starting hand dealt from the pool, A-Z letters")
	ocrProject := flag.String("ocr-project", "", "GCP project for rack-photo classification; empty disables /api/classify-rack")
	ocrRegion := flag.String("ocr-region", "", "Vertex AI region for rack-photo classification")
	flag.Parse()

	lvl := slog.LevelInfo
	switch strings.ToLower(*levelStr) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	f, err := os.Open(*dictPath)
	if err != nil {
		logger.Error("opening dictionary", "err", err)
		os.Exit(1)
	}
	dict, err := dictionary.Build(f)
	_ = f.Close()
	if err != nil {
		logger.Error("building dictionary", "err", err)
		os.Exit(1)
	}

	canon := domain.TranslationOnly
	if strings.ToLower(strings.TrimSpace(*canonStr)) == "dihedral8" {
		canon = domain.Dihedral8
	}

	core := solver.NewBacktrackSolver(canon)
	incr := incremental.NewSolver(core)
	sw := swap.New(*seed)
	uc := usecase.NewService(core, incr, sw, dict)

	var hand domain.Multiset
	if *initialHand != "" {
		letters, err := domain.ParseLetters(*initialHand)
		if err != nil {
			logger.Error("parsing initial hand", "err", err)
			os.Exit(1)
		}
		hand = domain.NewMultiset(letters)
	}
	p := pool.New(hand, *seed)

	h := httpadapter.New(uc, p)
	if *ocrProject != "" {
		classifier, err := ocr.NewGeminiTileClassifier(context.Background(), *ocrProject, *ocrRegion)
		if err != nil {
			logger.Warn("rack classifier disabled", "err", err)
		} else {
			h.OCR = classifier
		}
	}

	tmpl := web.Templates()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "index.tmpl", map[string]any{}); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening", "addr", *addr, "dict", *dictPath, "words", dict.WordCount(), "canon", *canonStr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

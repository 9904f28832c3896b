// Command peeler-func is a serverless-function entrypoint registering
// the same HTTP handlers as cmd/peeler-web, for deployment as a Cloud
// Function, grounded on Eyas-xwgen's funcframework.RegisterHTTPFunction
// + StartHostPort main.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	httpadapter "peeler.dev/peeler/internal/adapters/http"
	"peeler.dev/peeler/internal/adapters/ocr"
	"peeler.dev/peeler/internal/dictionary"
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/incremental"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/solver"
	"peeler.dev/peeler/internal/swap"
	"peeler.dev/peeler/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dictPath := os.Getenv("DICT_PATH")
	if dictPath == "" {
		dictPath = "./wordlist.txt"
	}
	f, err := os.Open(dictPath)
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

	core := solver.NewBacktrackSolver(domain.TranslationOnly)
	incr := incremental.NewSolver(core)
	sw := swap.New(1)
	uc := usecase.NewService(core, incr, sw, dict)
	p := pool.New(domain.Multiset{}, 1)
	h := httpadapter.New(uc, p)
	if ocrProject := os.Getenv("OCR_PROJECT"); ocrProject != "" {
		classifier, err := ocr.NewGeminiTileClassifier(context.Background(), ocrProject, os.Getenv("OCR_REGION"))
		if err != nil {
			logger.Warn("rack classifier disabled", "err", err)
		} else {
			h.OCR = classifier
		}
	}

	mux := http.NewServeMux()
	h.Register(mux)
	funcframework.RegisterHTTPFunction("/", mux.ServeHTTP)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if os.Getenv("LOCAL_ONLY") == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v", err)
	}
}

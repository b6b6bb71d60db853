package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/api/valuation"
)

func main() {
	// Load environment variables
	godotenv.Load()

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(envOr("DCF_LOG_LEVEL", "info")),
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: true, EndWithMessage: true, Writer: os.Stderr},
	}

	addr := envOr("DCF_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("API server starting")
	log.Info().Msg("  - POST /api/valuation")
	log.Info().Msg("  - POST /api/valuation/report  (?format=md for Markdown)")
	log.Info().Msg("  - POST /api/valuation/sensitivity")
	log.Info().Msg("  - POST /api/valuation/reverse  (?sweep=1 for the WACC sweep)")
	log.Info().Msg("  - POST /api/valuation/wacc")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	valuation.Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

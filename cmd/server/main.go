package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uploadcare-loader/internal/handler"
	"uploadcare-loader/internal/middleware"
	"uploadcare-loader/pkg/config"
	"uploadcare-loader/pkg/loader"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	if cfg.Loader.Mode == loader.ModeDevelopment {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(new(logrus.JSONFormatter))
	}

	logrus.Println("🚀 Starting Uploadcare Loader Service...")
	logrus.Printf("📝 Port: %s", cfg.Port)
	logrus.Printf("📝 Mode: %s", cfg.Loader.Mode)
	logrus.Printf("📝 Allowed domains: %v", cfg.AllowedDomains)

	if err := cfg.Validate(); err != nil {
		logrus.Warnf("⚠️ %v", err)
	}

	h := handler.NewHandler(loader.New(cfg.Loader))
	log := logrus.WithField("component", "server")

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	if err := rateLimiter.TrustProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("❌ Invalid TRUSTED_PROXIES: %v", err)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go rateLimiter.Run(sweepCtx)

	guard := func(fn http.HandlerFunc) http.Handler {
		return rateLimiter.Limit(middleware.Auth(cfg.AllowedDomains)(fn))
	}

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/image", guard(h.Image)).Methods("GET")
	r.Handle("/resolve", guard(h.Resolve)).Methods("GET")

	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint
		stopSweep()

		log.Println("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("❌ Server shutdown error: %v", err)
		}

		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🌐 Server listening on http://localhost%s", addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server error: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

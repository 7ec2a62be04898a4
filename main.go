// Package main, pano binary'sinin giriş noktasıdır.
//
// Komutlar:
//
//	pano serve                    Board API + web arayüzü (varsayılan)
//	pano user promote <username>  Kullanıcıyı ADMIN yapar
//	pano user demote <username>   Kullanıcıyı USER yapar
//	pano version
//
// Dependency Injection "wire-up" init_*.go dosyalarındadır; global değişken yok.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/pano/config"
	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// version, build sırasında -ldflags "-X main.version=..." ile set edilir.
var version = "dev"

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pano",
		Short:         "Message boards with a JSON API and a server-rendered web UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the API and web servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(userCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pano version %s\n", version)
		},
	})

	return cmd
}

func serve(ctx context.Context) error {
	log.Printf("[main] pano %s starting...", version)

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Printf("[main] config loaded (port=%d, api=%t, web=%t)", cfg.Server.Port, cfg.API.Enabled, cfg.Web.Enabled)

	// ─── 2. Metrics ───
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	root := http.NewServeMux()
	root.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	var shutdownHooks []func()

	// ─── 3. Board API ───
	if cfg.API.Enabled {
		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		repos := initRepositories(db.Conn)
		svcs, limiters, janitor := initServices(db.Conn, repos, cfg)
		h := initHandlers(svcs, limiters, db.Conn)

		apiMux := http.NewServeMux()
		initRoutes(apiMux, h, svcs.Auth, repos.User)

		// Metrics doğrudan mux'ı sarmalı (r.Pattern için); CORS dışta.
		var apiHandler http.Handler = metrics.Wrap(apiMux)
		if len(cfg.API.AllowedOrigins) > 0 {
			apiHandler = cors.New(cors.Options{
				AllowedOrigins:   cfg.API.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Authorization", "Content-Type"},
				AllowCredentials: true,
			}).Handler(apiHandler)
		}
		root.Handle("/api/", apiHandler)

		janitor.Start()
		shutdownHooks = append(shutdownHooks, janitor.Stop, limiters.Stop)
		log.Println("[main] board API enabled at /api")
	}

	// ─── 4. Web UI ───
	if cfg.Web.Enabled {
		webServer, sessions, err := initWeb(cfg)
		if err != nil {
			return err
		}
		root.Handle("/", metrics.Wrap(webServer.Routes()))
		shutdownHooks = append(shutdownHooks, sessions.Close)
		log.Printf("[main] web UI enabled (api=%s)", cfg.Web.APIURL)
	}

	// ─── 5. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      middleware.RequestLogger(root),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 6. Graceful Shutdown ───
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Println("[main] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	for _, hook := range shutdownHooks {
		hook()
	}

	log.Println("[main] server stopped gracefully")
	return nil
}

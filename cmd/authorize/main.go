// Command authorize runs the authorization endpoint of an OpenID provider.
// It is configured through environment variables, see config.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kaoden/goidc-authorize/internal/metrics"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/kaoden/goidc-authorize/pkg/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwks, err := loadPrivateJWKS(cfg.JWKSFile)
	if err != nil {
		return err
	}

	st, err := openStorages(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			logger.Error("could not close the storages", slog.String("error", err.Error()))
		}
	}()

	clients, err := cfg.clients()
	if err != nil {
		return err
	}
	for _, client := range clients {
		if err := st.clients.Save(ctx, client); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	op, err := provider.New(
		cfg.Issuer,
		jwks,
		provider.WithClientStorage(st.clients),
		provider.WithGrantStorage(st.grants),
		provider.WithConsentStorage(st.consents),
		provider.WithAuthorizationCodeLifetime(int(cfg.AuthorizationCodeTTL.Seconds())),
		provider.WithIDTokenLifetime(int(cfg.IDTokenTTL.Seconds())),
		provider.WithTokenLifetime(int(cfg.TokenTTL.Seconds())),
		provider.WithConsentLifetime(int(cfg.ConsentTTL.Seconds())),
		provider.WithUserFunc(headerUserFunc(cfg.UserHeader)),
		provider.WithConsentChallengeKey(cfg.consentChallengeKey()),
		provider.WithOutcomeRecorder(m),
		provider.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)
	router.Handle(goidc.EndpointAuthorize, m.Middleware(op.Handler()))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting the authorization server", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// headerUserFunc trusts the user ID set by the authenticating proxy.
func headerUserFunc(header string) goidc.UserFunc {
	return func(r *http.Request) (*goidc.User, bool) {
		userID := r.Header.Get(header)
		if userID == "" {
			return nil, false
		}
		return &goidc.User{ID: userID, LastLoginAt: time.Now().UTC()}, true
	}
}

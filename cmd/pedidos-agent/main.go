package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pedidos-agent/internal/config"
	"pedidos-agent/internal/domain"
	"pedidos-agent/internal/infrastructure/backend"
	"pedidos-agent/internal/infrastructure/printer"
	"pedidos-agent/internal/infrastructure/sessionstore"
	"pedidos-agent/internal/server"
	"pedidos-agent/internal/usecase"
)

type printerTransport interface {
	Print(domain.Order) error
	TestPrint() error
}

func main() {
	envDefaults := config.EnvDefaults()

	env := flag.String("env", envDefaults.Env, "environment name")
	port := flag.Int("port", envDefaults.Port, "control API port")
	apiBaseURL := flag.String("api-base-url", envDefaults.APIBaseURL, "backend base URL")
	apiKey := flag.String("api-key", envDefaults.APIKey, "backend API key")
	tenantID := flag.String("tenant-id", envDefaults.TenantID, "tenant id header value")
	pollInterval := flag.Duration("poll-interval", envDefaults.PollInterval, "order feed poll interval")
	pageLimit := flag.Int("page-limit", envDefaults.PageLimit, "orders fetched per poll")
	printDebounce := flag.Duration("print-debounce", envDefaults.PrintDebounce, "delay before an automatic print")
	printerAddr := flag.String("printer-addr", envDefaults.PrinterAddr, "receipt printer host:port (empty: print to stdout)")
	sessionDB := flag.String("session-db", envDefaults.SessionDBPath, "path of the local session database")
	jwtSecret := flag.String("jwt-secret", envDefaults.JWTSecret, "secret for control API tokens")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "emit JSON logs")
	flag.Parse()

	cfg := config.Config{
		Env:           *env,
		Port:          *port,
		APIBaseURL:    *apiBaseURL,
		APIKey:        *apiKey,
		TenantID:      *tenantID,
		PollInterval:  *pollInterval,
		PageLimit:     *pageLimit,
		PrintDebounce: *printDebounce,
		PrinterAddr:   *printerAddr,
		SessionDBPath: *sessionDB,
		JWTSecret:     *jwtSecret,
		LogJSON:       *logJSON,
	}

	log := newLogger(cfg)

	var store usecase.SessionStore
	if cfg.SessionDBPath == "" {
		store = sessionstore.NewMemoryStore()
	} else {
		s, err := sessionstore.OpenSQLite(cfg.SessionDBPath)
		if err != nil {
			log.Error("cannot open session database", "path", cfg.SessionDBPath, "err", err)
			os.Exit(1)
		}
		store = s
	}

	client := &backend.Client{
		BaseURL:  cfg.APIBaseURL,
		APIKey:   cfg.APIKey,
		TenantID: cfg.TenantID,
		Creds:    store,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}

	var prn printerTransport
	if cfg.PrinterAddr != "" {
		prn = &printer.Network{Addr: cfg.PrinterAddr}
		log.Info("using network printer", "addr", cfg.PrinterAddr)
	} else {
		prn = printer.NewConsole()
		log.Info("no printer configured, tickets go to stdout")
	}

	dispatcher := usecase.NewPrintDispatcher(prn, client, cfg.PrintDebounce, log)
	synchronizer := usecase.NewSynchronizer(client, dispatcher, cfg.PollInterval, cfg.PageLimit, log)
	auth := &usecase.AuthService{Gateway: client, Store: store, JWTSecret: cfg.JWTSecret}
	synchronizer.SetGate(auth.IsLoggedIn)
	admin := &usecase.AdminService{Gateway: client}
	support := &usecase.SupportService{Gateway: client}
	srv := server.New(auth, synchronizer, dispatcher, admin, support, client, prn, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go synchronizer.Run(ctx)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("control API failed", "err", err)
			stop()
		}
	}()
	log.Info("pedidos-agent started",
		"env", cfg.Env,
		"port", cfg.Port,
		"poll_interval", cfg.PollInterval.String(),
		"backend", cfg.APIBaseURL)

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	dispatcher.Close()
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appactivity "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/activity"
	appcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/cart"
	appcatalog "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/catalog"
	appcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/contest"
	appnewsletter "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/newsletter"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/config"
	domcart "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	dommail "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/filestore"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/id"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/mailer"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/memory"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/natsbus"
	infraobs "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/observability/oteltrace"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/observability/prometrics"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/observability/zaplogger"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/sqlite"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/view"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/pkg/logging"
	httppresentation "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/presentation/http"
	workerpresentation "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/presentation/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	appName = "ninjacoders"
	Version = "0.3.0"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "NinjaCoders academy website",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveHTTP(ctx, cfg)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(serve, &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

// stores bundles the catalog and cart backends picked by config.
type stores struct {
	products product.Repository
	carts    domcart.Repository
	ready    func(context.Context) error
	close    func() error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	ids := id.NewUUIDGenerator()
	if cfg.Store.Driver != config.DriverSQLite {
		return &stores{
			products: memory.NewProductRepository(memory.DefaultProducts()...),
			carts:    memory.NewCartRepository(ids),
			close:    func() error { return nil },
		}, nil
	}

	db, err := sqlite.Open(ctx, cfg.Store.DatabasePath, ids)
	if err != nil {
		return nil, err
	}
	if err := db.Seed(ctx, memory.DefaultProducts()...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return &stores{
		products: db,
		carts:    db.Carts(),
		ready:    db.Ping,
		close:    db.Close,
	}, nil
}

func newMailer(cfg *config.Config, logger observability.Logger) (dommail.Sender, error) {
	if cfg.Mail.SendGridAPIKey == "" {
		return mailer.NewLog(logger), nil
	}
	return mailer.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.From, logger)
}

func serveHTTP(ctx context.Context, cfg *config.Config) error {
	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.Service.Name,
		Env:     cfg.Service.Env,
		Level:   cfg.Service.LogLevel,
		File:    cfg.Service.LogFile,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	logger := zaplogger.New(baseLogger)
	systemLogger := logger.With(
		observability.F("trace_id", logging.SystemTraceID),
		observability.F("span_id", logging.SystemSpanID),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	instruments := infraobs.StandardInstruments(prometrics.New(reg, "", ""))

	shutdownTracing := oteltrace.InstallProvider()
	tel := infraobs.New(oteltrace.New(cfg.Service.Name), logger, instruments)

	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	sender, err := newMailer(cfg, logger)
	if err != nil {
		_ = st.close()
		return fmt.Errorf("mailer: %w", err)
	}

	bus := outbox.NewBus(tel)
	var publisher domoutbox.Publisher = bus
	var nats *natsbus.Publisher
	if cfg.Events.NATSURL != "" {
		nats, err = natsbus.Connect(cfg.Events.NATSURL, cfg.Service.Name, logger)
		if err != nil {
			_ = st.close()
			return fmt.Errorf("connect nats: %w", err)
		}
		publisher = outbox.Tee(bus, nats)
	}

	worker := appactivity.New(tel)
	workerpresentation.Subscribe(bus, logger, tel, worker.Handlers())
	bus.Start(context.Background())

	views, err := view.New()
	if err != nil {
		_ = st.close()
		return fmt.Errorf("load templates: %w", err)
	}

	sessionStore := session.NewMemoryStore(cfg.Session.TTL)
	sessions, err := session.NewManager(
		sessionStore,
		cfg.Session.CookieSecret,
		session.WithSecureCookie(cfg.Session.SecureCookie),
		session.WithMaxAge(cfg.Session.TTL),
		session.WithLogger(logger),
	)
	if err != nil {
		_ = st.close()
		return fmt.Errorf("sessions: %w", err)
	}

	uploads := filestore.New(cfg.Uploads.Dir)
	handler := httppresentation.NewHandler(httppresentation.Dependencies{
		Cart:           appcart.NewWorkflow(st.carts, st.products, sender, views, publisher, tel),
		Catalog:        appcatalog.NewListProductsUseCase(st.products, tel),
		Newsletter:     appnewsletter.NewSignupUseCase(sender, publisher, tel),
		Contest:        appcontest.NewStorePhotoUseCase(uploads, publisher, tel),
		Uploads:        uploads,
		Sessions:       sessions,
		Views:          views,
		PublicDir:      cfg.HTTP.PublicDir,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Ready:          st.ready,
	}, cfg.Service.Name, tel)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		systemLogger.Info("http_server_start", observability.F("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessionStore.Sweep(); n > 0 {
					systemLogger.Debug("sessions_expired", observability.F("count", n))
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
			errs = append(errs, err)
		} else {
			systemLogger.Info("http_server_stopped")
		}
		bus.Stop(shutdownCtx)
		if nats != nil {
			if err := nats.Close(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("close nats: %w", err))
			}
		}
		if err := st.close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/db/postgres"
	"github.com/jusunglee/thaiconv/internal/dictsource"
	"github.com/jusunglee/thaiconv/internal/logger"
	"github.com/jusunglee/thaiconv/internal/metrics"
	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
	"github.com/jusunglee/thaiconv/internal/web"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("thaiconv-web")

	var (
		port           = fs.Int64Long("port", 3000, "HTTP server port")
		dictionary     = fs.StringLong("dictionary", "", "Dictionary source: empty for the built-in table, a .tsv file, sqlite://path or postgres://...")
		databaseURL    = fs.StringLong("database-url", "", "Database for feedback (sqlite://path or postgres://...); feedback is disabled when empty")
		allowedOrigins = fs.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
		adminUser      = fs.StringLong("admin-user", "admin", "Basic auth user for reading feedback")
		adminPassword  = fs.StringLong("admin-password", "", "Basic auth password for reading feedback")
		rateLimit      = fs.Int64Long("rate-limit", 60, "Write requests per minute per IP")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	engine, err := newEngine(ctx, *dictionary)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "loaded dictionary", "entries", engine.Dictionary().Len())

	var repo db.Repository
	if *databaseURL != "" {
		repo, err = dictsource.OpenRepository(ctx, *databaseURL)
		if err != nil {
			return fmt.Errorf("opening feedback database: %w", err)
		}
		defer repo.Close()
		log.InfoContext(ctx, "connected to feedback database")
	} else {
		log.WarnContext(ctx, "no database-url, feedback is disabled")
	}

	var origins []string
	for _, o := range strings.Split(*allowedOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	router := web.NewRouter(engine, repo, log, web.Config{
		AllowedOrigins: origins,
		AdminUser:      *adminUser,
		AdminPassword:  *adminPassword,
		RateLimit:      int(*rateLimit),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.InfoContext(ctx, "received signal, shutting down gracefully", "signal", sig)
			cancel(errors.New("signal received"))
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoContext(gctx, "starting web server", "port", *port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	// Periodically export pgxpool stats as Prometheus gauges
	if pg, ok := repo.(*postgres.Repository); ok {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s := pg.PoolStats()
					metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
					metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
					metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	return g.Wait()
}

func newEngine(ctx context.Context, source string) (*transliteration.Engine, error) {
	inv, err := phonetic.Default()
	if err != nil {
		return nil, fmt.Errorf("loading phonetic inventory: %w", err)
	}
	dict, err := dictsource.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}
	metrics.DictionaryEntries.Set(float64(dict.Len()))
	return transliteration.New(inv, dict)
}

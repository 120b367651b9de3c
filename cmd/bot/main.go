package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/thaiconv/internal/bot"
	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/dictsource"
	"github.com/jusunglee/thaiconv/internal/envsetup"
	"github.com/jusunglee/thaiconv/internal/health"
	"github.com/jusunglee/thaiconv/internal/logger"
	"github.com/jusunglee/thaiconv/internal/metrics"
	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

const envPath = ".env"

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	if envsetup.NeedsSetup(envPath) && os.Getenv("DISCORD_TOKEN") == "" {
		saved, err := envsetup.Run(envPath)
		if err != nil {
			return fmt.Errorf("running setup wizard: %w", err)
		}
		if !saved {
			return errors.New("setup cancelled, no .env written")
		}
	}
	_ = godotenv.Load(envPath)

	fs := ff.NewFlagSet("thaiconv-bot")

	var (
		discordToken      = fs.StringLong("discord-token", "", "Discord bot token")
		guildID           = fs.StringLong("guild-id", "", "Register commands to this guild only (empty for global)")
		dictionary        = fs.StringLong("dictionary", "", "Dictionary source: empty for the built-in table, a .tsv file, sqlite://path or postgres://...")
		databaseURL       = fs.StringLong("database-url", "", "Database for reported conversions (sqlite://path or postgres://...)")
		feedbackRetention = fs.DurationLong("feedback-retention", 90*24*time.Hour, "How long to keep reported conversions (0 keeps them forever)")
		rateLimit         = fs.Int64Long("rate-limit", 5, "Commands per minute per user")
		healthPort        = fs.Int64Long("health-port", 9090, "Port for /health and /metrics")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *discordToken == "" {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return errors.New("discord-token is required")
	}

	log := logger.New()
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	inv, err := phonetic.Default()
	if err != nil {
		return fmt.Errorf("loading phonetic inventory: %w", err)
	}
	dict, err := dictsource.Load(ctx, *dictionary)
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}
	engine, err := transliteration.New(inv, dict)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	metrics.DictionaryEntries.Set(float64(dict.Len()))
	log.InfoContext(ctx, "loaded dictionary", "entries", dict.Len())

	var repo db.Repository
	if *databaseURL != "" {
		repo, err = dictsource.OpenRepository(ctx, *databaseURL)
		if err != nil {
			return fmt.Errorf("opening feedback database: %w", err)
		}
		defer repo.Close()
	} else {
		log.WarnContext(ctx, "no database-url, report buttons are disabled")
	}

	dg, err := discordgo.New("Bot " + *discordToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	b := bot.New(
		bot.NewLogger(log),
		bot.NewDiscordSession(dg),
		engine,
		repo,
		bot.Config{
			GuildID:           *guildID,
			FeedbackRetention: *feedbackRetention,
			RateLimit:         int(*rateLimit),
		},
	)

	healthServer := health.New(int(*healthPort), func() map[string]any {
		return map[string]any{
			"dictionary": dict.Len(),
			"database":   repo != nil,
		}
	})

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
		log.InfoContext(gctx, "starting health server", "port", *healthPort)
		return healthServer.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return healthServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return b.Run(gctx)
	})

	return g.Wait()
}

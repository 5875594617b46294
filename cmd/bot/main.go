package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/fromcord/fromcord/internal/chat"
	"github.com/fromcord/fromcord/internal/common/clock"
	"github.com/fromcord/fromcord/internal/common/uuid"
	"github.com/fromcord/fromcord/internal/config"
	"github.com/fromcord/fromcord/internal/handlers/discord"
	"github.com/fromcord/fromcord/internal/metrics"
	guildRepo "github.com/fromcord/fromcord/internal/repositories/guildconfig"
	sessionRepo "github.com/fromcord/fromcord/internal/repositories/session"
	"github.com/fromcord/fromcord/internal/scheduler"
	guildconfigService "github.com/fromcord/fromcord/internal/services/guildconfig"
	sessionService "github.com/fromcord/fromcord/internal/services/session"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("can't load configuration", "error", err)
		os.Exit(1)
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		slog.Error("can't create Discord session", "error", err)
		os.Exit(1)
	}

	chatClient, err := chat.NewDiscord(&chat.Config{
		Session: dg,
	})
	if err != nil {
		slog.Error("can't create chat client", "error", err)
		os.Exit(1)
	}

	sessionRepository, err := sessionRepo.NewFile(&sessionRepo.Config{
		Path: filepath.Join(cfg.DataDir, "sessions.json"),
	})
	if err != nil {
		slog.Error("can't create session repository", "error", err)
		os.Exit(1)
	}

	guildRepository, err := guildRepo.NewFile(&guildRepo.Config{
		Path: filepath.Join(cfg.DataDir, "guilds.json"),
	})
	if err != nil {
		slog.Error("can't create guild config repository", "error", err)
		os.Exit(1)
	}

	guildConfigs, err := guildconfigService.New(&guildconfigService.Config{
		Repo:              guildRepository,
		PrimaryGuildID:    cfg.PrimaryGuildID,
		PrimaryCategoryID: cfg.PrimaryCategoryID,
	})
	if err != nil {
		slog.Error("can't create guild config service", "error", err)
		os.Exit(1)
	}

	sessions, err := sessionService.New(&sessionService.Config{
		Repo:         sessionRepository,
		GuildConfigs: guildConfigs,
		Chat:         chatClient,
		Clock:        &clock.DefaultClock{},
		UUID:         uuid.New(),
	})
	if err != nil {
		slog.Error("can't create session service", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := guildConfigs.Load(ctx); err != nil {
		slog.Error("can't load guild configs", "error", err)
		os.Exit(1)
	}
	if err := sessions.Load(ctx); err != nil {
		slog.Error("can't load sessions", "error", err)
		os.Exit(1)
	}

	// /manage shutdown funnels into the same teardown path as SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	bot, err := discord.New(&discord.Config{
		Session:            dg,
		ApplicationID:      cfg.ApplicationID,
		GuildID:            cfg.PrimaryGuildID,
		OwnerID:            cfg.OwnerID,
		SessionService:     sessions,
		GuildConfigService: guildConfigs,
		Shutdown: func() {
			stop <- syscall.SIGTERM
		},
	})
	if err != nil {
		slog.Error("can't create bot", "error", err)
		os.Exit(1)
	}

	if err := bot.Start(); err != nil {
		slog.Error("can't start bot", "error", err)
		os.Exit(1)
	}

	sweeper, err := scheduler.New(&scheduler.Config{
		Sessions:     sessions,
		GuildConfigs: guildConfigs,
	})
	if err != nil {
		slog.Error("can't create scheduler", "error", err)
		os.Exit(1)
	}
	sweeper.Start()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}
	go func() {
		slog.Info("metrics listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down")

	sweeper.Stop()

	if err := sessions.Save(ctx); err != nil {
		slog.Error("can't save sessions", "error", err)
	}
	if err := guildConfigs.Save(ctx); err != nil {
		slog.Error("can't save guild configs", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("metrics server shutdown", "error", err)
	}

	if err := bot.Stop(); err != nil {
		slog.Error("can't stop bot", "error", err)
	}
}

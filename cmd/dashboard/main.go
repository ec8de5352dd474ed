// Command dashboard serves the Quantiva dashboard shell: the session gate,
// the protected page tree and the AI chat transcript.
//
// @title        Quantiva Dashboard API
// @version      1.0
// @description  Session gate and page shell for the Quantiva investment-research dashboard.
// @BasePath     /
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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quantiva/dashboard/internal/api"
	"github.com/quantiva/dashboard/internal/api/metrics"
	"github.com/quantiva/dashboard/internal/core/ports"
	"github.com/quantiva/dashboard/internal/core/service"
	"github.com/quantiva/dashboard/internal/infrastructure/config"
	"github.com/quantiva/dashboard/internal/infrastructure/queue"
	"github.com/quantiva/dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Init(logger.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Pretty:  os.Getenv("ENV") != "production",
		Service: "quantiva-dashboard",
	})
	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("dashboard stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	codec, err := newCodec(cfg.Session)
	if err != nil {
		return err
	}

	var verifier ports.IdentityVerifier = service.NewLatencyVerifier(cfg.Session.SignInLatency)
	if len(cfg.Session.DenyEmails) > 0 {
		verifier = service.NewDenyListVerifier(verifier, cfg.Session.DenyEmails...)
	}

	sessions := service.NewSessionService(storage, codec, verifier, cfg.Session.Key, logger.For("session"))

	dispatcher := queue.NewDispatcher(cfg.Chat.Workers, logger.For("chat_dispatcher"))
	chat := service.NewChatService(dispatcher, cfg.Chat.ReplyDelay, logger.For("chat"))
	dispatcher.Start(ctx, chat)
	unsubscribe := sessions.Subscribe(chat.OnSessionChange)
	defer unsubscribe()

	e := api.NewRouter(api.Dependencies{
		Sessions: sessions,
		Chat:     chat,
		Storage:  storage,
		Backend:  cfg.Storage.Backend,
	}, log)

	g, gctx := errgroup.WithContext(ctx)

	// Until the restore finishes the guard answers every protected route with
	// the waiting response.
	g.Go(func() error {
		if err := sessions.Restore(gctx); err != nil {
			return fmt.Errorf("session restore: %w", err)
		}
		metrics.SessionRestoresTotal.WithLabelValues(string(sessions.State().Phase())).Inc()
		return nil
	})

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.Storage.Backend).
			Str("record_format", cfg.Session.RecordFormat).
			Msg("dashboard listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

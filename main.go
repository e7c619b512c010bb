package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/vmnc/esports-api/pkg/auth"
	"github.com/vmnc/esports-api/pkg/config"
	"github.com/vmnc/esports-api/repos/notify"
	"github.com/vmnc/esports-api/repos/store"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	log.Info().Str("driver", st.Name()).Msg("storage ready")

	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if hash, err = auth.HashPassword(cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to hash admin password")
		}
	}
	gate := auth.NewGate(hash, cfg.AdminSessionTTL, clockwork.NewRealClock())

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.SessionSweepInterval),
		gocron.NewTask(func() {
			if n := gate.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("admin sessions swept")
			}
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session sweep")
	}
	scheduler.Start()

	dispatcher := notify.NewDispatcher(log, cfg.NotifyTimeout, notifiers(cfg)...)
	if !dispatcher.Enabled() {
		log.Info().Msg("registration notifications disabled")
	}

	router := newRouter(app{
		store:      st,
		gate:       gate,
		dispatcher: dispatcher,
		clock:      clockwork.NewRealClock(),
		log:        log,
		cors:       corsConfig(cfg),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown")
	}
	dispatcher.Wait()
	if err := st.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("storage close")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		s, err := store.OpenMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(connectCtx); err != nil {
			// Existing duplicates block index creation; the in-process
			// checks still apply.
			log.Warn().Err(err).Msg("failed to create unique indexes")
		}
		return s, nil
	case config.DriverFirestore:
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
		}
		return store.OpenFirestore(ctx, cfg.FirebaseProjectID, opts...)
	default:
		return store.OpenFile(cfg.DataFile)
	}
}

func notifiers(cfg *config.Config) []notify.Notifier {
	var out []notify.Notifier
	if w := notify.NewWebhook(cfg.RegistrationWebhookURL, &http.Client{Timeout: cfg.NotifyTimeout}); w != nil {
		out = append(out, w)
	}
	if e := notify.NewEmail(cfg.ResendKey, cfg.NotifyEmailFrom, cfg.NotifyEmailTo); e != nil {
		out = append(out, e)
	}
	return out
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.Origins()
		c.AllowCredentials = true
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	return c
}

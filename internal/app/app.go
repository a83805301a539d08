package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/gender"
	web "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http/middleware"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/notify"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage"
	courseStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/course"
	leadStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/lead"
	outboxStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/outbox"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/application/orchestrators"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/config"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// version is set at build time via -ldflags "-X .../internal/app.version=..."
var version = "dev"

// Run loads configuration, wires every component and serves until ctx is cancelled.
// PRE: ctx is cancelled on SIGINT/SIGTERM by the caller
// POST: HTTP server drained, outbox worker stopped, broadcasts flushed, database closed
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", version),
		slog.String("addr", cfg.Server.Addr()),
		slog.String("log_level", cfg.Log.Level),
	)

	return serve(ctx, cfg)
}

// serve runs the application for an already loaded configuration.
func serve(ctx context.Context, cfg *config.Config) error {
	db, err := storage.Open(cfg.Database.Path, cfg.Database.MaxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		return err
	}
	schema, _ := storage.SchemaVersion(db)
	slog.Info("database_ready", "path", cfg.Database.Path, "schema", schema)

	timedDB := storage.NewTimedDB(db, cfg.Database.SlowQuery)
	leads := leadStore.NewSQLiteStore(timedDB)
	courses := courseStore.NewSQLiteStore(timedDB)
	outboxEntries := outboxStore.NewSQLiteStore(timedDB)

	if err := orchestrators.ExecuteSeedCourses(ctx, orchestrators.SeedCoursesDeps{CourseStore: courses}); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}

	sender := newSender(cfg.Email)

	broadcaster := notify.NewBroadcaster(notify.ParseURLs(cfg.Notify.URLs))
	defer broadcaster.Wait()
	var notifier orchestrators.Notifier
	if broadcaster.Enabled() {
		notifier = broadcaster
	}

	csrfKey, err := loadCSRFKey(cfg.Security)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimit, time.Second)
	defer limiter.Close()

	handler := web.NewMux(web.Deps{
		LeadStore:      leads,
		CourseStore:    courses,
		OutboxStore:    outboxEntries,
		Sender:         sender,
		Notifier:       notifier,
		Predictor:      gender.NewClient(cfg.Gender.URL, cfg.Gender.Timeout),
		DB:             timedDB,
		Policy:         policyFrom(cfg.Duplicate),
		CandidateLimit: cfg.Duplicate.CandidateLimit,
		Limiter:        limiter,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.Security.SecureCookies,
		TrustedOrigins: cfg.Security.TrustedOriginList(),
		CORS:           cfg.CORS,
		SlowRequest:    cfg.Server.SlowRequest,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	processor := orchestrators.NewOutboxProcessor(outboxEntries, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender},
	}, orchestrators.OutboxProcessorConfig{
		BaseDelay: cfg.Outbox.BaseDelay,
		MaxDelay:  cfg.Outbox.MaxDelay,
		BatchSize: cfg.Outbox.BatchSize,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return orchestrators.RunBackgroundWorker(gctx, processor, cfg.Outbox.PollInterval)
	})

	g.Go(func() error {
		slog.Info("http_server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		slog.Info("http_server_shutting_down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("application_stopped")
	return nil
}

// newSender picks Resend when an API key is configured, otherwise the noop sender.
func newSender(cfg config.EmailConfig) email.Sender {
	if cfg.ResendAPIKey != "" {
		slog.Info("email_sender_configured", "provider", "resend", "from", cfg.From)
		return email.NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.ReplyTo)
	}
	slog.Warn("email_sender_configured", "provider", "noop", "hint", "set EMAIL_RESEND_API_KEY for real delivery")
	return email.NewNoopSender()
}

// policyFrom maps the duplicate settings onto the filter policy.
func policyFrom(cfg config.DuplicateConfig) submission.Policy {
	return submission.Policy{
		WindowMonths:  cfg.WindowMonths,
		FoldEmailCase: cfg.FoldEmailCase,
		Location:      cfg.Location,
	}
}

// loadCSRFKey returns the configured key or a random per-process key.
func loadCSRFKey(cfg config.SecurityConfig) ([]byte, error) {
	key, err := cfg.CSRFKeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("csrf_key_generated", "hint", "set SECURITY_CSRF_KEY so tokens survive restarts")
	return key, nil
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-api/internal/admins"
	"github.com/harentsoaR/clinic-api/internal/appointments"
	"github.com/harentsoaR/clinic-api/internal/config"
	"github.com/harentsoaR/clinic-api/internal/handlers"
	"github.com/harentsoaR/clinic-api/internal/metrics"
	"github.com/harentsoaR/clinic-api/internal/patients"
	"github.com/harentsoaR/clinic-api/internal/presence"
	"github.com/harentsoaR/clinic-api/internal/schedule"
	"github.com/harentsoaR/clinic-api/internal/services"
	"github.com/harentsoaR/clinic-api/internal/storage"
	"github.com/harentsoaR/clinic-api/internal/utils"
)

const connectTimeout = 10 * time.Second

// openStore connects the configured document backend. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.KV, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")
		return storage.NewMongoStore(client.Database(cfg.MongoDatabase)), func() {
			_ = client.Disconnect(context.Background())
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping Redis: %w", err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
		return storage.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to Postgres: %w", err)
		}
		store := storage.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Msg("connected to Postgres")
		return store, pool.Close, nil

	default:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return storage.NewMemoryStore(), func() {}, nil
	}
}

type app struct {
	handler  *handlers.Handler
	tokens   *utils.TokenManager
	admins   *admins.Service
	tracker  *presence.Tracker
	notifier *services.NotificationService
	registry *prometheus.Registry
}

func buildApp(ctx context.Context, cfg *config.Config, kv storage.KV, logger zerolog.Logger) (*app, error) {
	policy, err := cfg.SlotPolicy()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewClinicMetrics(registry)

	clock := schedule.NewClock(cfg.ClinicUTCOffsetHours, nil)
	tokens := utils.NewTokenManager(jwtSecret(cfg, logger), cfg.JWTTTL)

	store := appointments.NewStore(kv, m)
	records, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	pats := patients.NewService(kv, store, m, logger.With().Str("component", "patients").Logger())
	if err := pats.Load(ctx); err != nil {
		return nil, err
	}
	adms := admins.NewService(kv, tokens, m, logger.With().Str("component", "admins").Logger())
	if err := adms.Load(ctx); err != nil {
		return nil, err
	}

	notifier := services.NewNotificationService(smsSender(cfg), emailSender(cfg), logger.With().Str("component", "notifications").Logger())
	appts := appointments.NewService(appointments.ServiceConfig{
		Store:      store,
		Controller: appointments.NewController(clock),
		Policy:     policy,
		Patients:   pats,
		Notifier:   notifier,
		Metrics:    m,
		Logger:     logger.With().Str("component", "appointments").Logger(),
	})
	tracker := presence.NewTracker(cfg.PresenceWindow, logger.With().Str("component", "presence").Logger())

	logger.Info().Int("appointments", len(records)).Int("slots_per_day", len(policy.Slots())).Msg("state loaded")
	return &app{
		handler:  handlers.NewHandler(appts, pats, adms, tracker, clock, logger),
		tokens:   tokens,
		admins:   adms,
		tracker:  tracker,
		notifier: notifier,
		registry: registry,
	}, nil
}

// jwtSecret falls back to a random per-process secret in development, which
// invalidates sessions on restart. Validate rejects an empty secret elsewhere.
func jwtSecret(cfg *config.Config, logger zerolog.Logger) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("generate JWT secret: %v", err))
	}
	logger.Warn().Msg("JWT_SECRET is not set; using a random secret for this process")
	return hex.EncodeToString(buf)
}

// The sender constructors return nil pointers when unconfigured; keep those
// out of the interface so the notifier sees a true nil.
func smsSender(cfg *config.Config) services.SMSSender {
	if s := services.NewTextbeltSender(cfg.TextbeltAPIKey, cfg.TextbeltURL, &http.Client{Timeout: 15 * time.Second}); s != nil {
		return s
	}
	return nil
}

func emailSender(cfg *config.Config) services.EmailSender {
	s := services.NewSendGridSender(services.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	})
	if s != nil {
		return s
	}
	return nil
}

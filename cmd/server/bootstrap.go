package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/api"
	"github.com/ymango/ymango/internal/app"
	"github.com/ymango/ymango/internal/cache"
	"github.com/ymango/ymango/internal/database"
	"github.com/ymango/ymango/internal/middleware"
	"github.com/ymango/ymango/internal/monitoring/checks"
	"github.com/ymango/ymango/pkg/logger"
	"github.com/ymango/ymango/pkg/mail"
)

// runtimeStack bundles long-lived resources used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Redis     *cache.RedisStore
	RateStore middleware.RateStore
	Mailer    mail.Mailer
	Router    *gin.Engine

	cancel context.CancelFunc
}

// bootstrapRuntime initialises the database, cache, mailer and HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if seeds := cfg.Companies.SeedModels(); len(seeds) > 0 {
		if err := database.SeedCompanies(stack.DB, seeds); err != nil {
			return nil, fmt.Errorf("seed companies: %w", err)
		}
		log.Info("company directory seeded", zap.Int("count", len(seeds)))
	}

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisClient(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to in-memory rate limiting", zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	var rateCtx context.Context
	rateCtx, stack.cancel = context.WithCancel(context.Background())
	if stack.Redis != nil {
		stack.RateStore = middleware.NewCacheRateStore(stack.Redis)
	} else {
		stack.RateStore = middleware.NewMemoryRateStore(rateCtx)
	}

	stack.Mailer, err = mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}
	if !cfg.Email.SMTP.Enabled {
		log.Warn("smtp disabled; verification codes will not be delivered")
	}

	var pinger checks.RedisPinger
	if stack.Redis != nil {
		pinger = stack.Redis
	}
	redisProbe := checks.Redis(pinger, cfg.Cache.Redis.Enabled, 0)

	stack.Router, err = api.NewRouter(stack.DB, cfg, stack.RateStore, stack.Mailer, redisProbe)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown releases resources. Errors are logged, not returned.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}

	var err error
	if s.Redis != nil {
		err = multierr.Append(err, s.Redis.Close())
	}
	if s.DB != nil {
		err = multierr.Append(err, closeDatabase(s.DB))
	}
	for _, e := range multierr.Errors(err) {
		log.Warn("shutdown", zap.Error(e))
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		_ = closeDatabase(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql db: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/app"
	"github.com/ymango/ymango/internal/handlers"
	"github.com/ymango/ymango/internal/middleware"
	"github.com/ymango/ymango/internal/monitoring"
	"github.com/ymango/ymango/internal/monitoring/checks"
	"github.com/ymango/ymango/internal/repository"
	"github.com/ymango/ymango/internal/services"
	"github.com/ymango/ymango/pkg/mail"
)

// NewRouter builds the Gin engine, wires the services and registers every route.
// rateStore may be nil to disable throttling; mailer may be nil to store challenges
// without sending them. probes are added to the database readiness check.
func NewRouter(db *gorm.DB, cfg *app.Config, rateStore middleware.RateStore, mailer mail.Mailer, probes ...monitoring.Check) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	store, err := repository.NewGormStore(db)
	if err != nil {
		return nil, err
	}
	svc, err := newServiceSet(store, cfg, mailer)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	health := monitoring.NewHealthManager(append([]monitoring.Check{checks.Database(db, 0)}, probes...)...)
	registerHealthRoutes(r, handlers.NewHealthHandler(health))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.NewLimiter(rateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window)))

	registerVerificationRoutes(api, handlers.NewEmailVerificationHandler(
		svc.verifications,
		middleware.NewLimiter(rateStore, cfg.Verification.RequestLimit, cfg.Verification.RequestWindow),
		middleware.NewLimiter(rateStore, cfg.Verification.VerifyLimit, cfg.Verification.VerifyWindow),
	))
	registerUserRoutes(api, handlers.NewUserHandler(svc.signup, svc.users))
	registerCompanyRoutes(api, handlers.NewCompanyHandler(svc.companies))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

type serviceSet struct {
	verifications *services.EmailVerificationService
	users         *services.UserService
	companies     *services.CompanyService
	signup        *services.SignupService
}

func newServiceSet(store *repository.GormStore, cfg *app.Config, mailer mail.Mailer) (*serviceSet, error) {
	repos := store.Repositories()

	verifications, err := services.NewEmailVerificationService(repos.Verifications, mailer,
		services.WithVerificationCodeLength(cfg.Verification.CodeLength),
		services.WithVerificationSender(cfg.Email.SMTP.From),
	)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(repos.Users)
	if err != nil {
		return nil, err
	}
	companies, err := services.NewCompanyService(repos.Companies)
	if err != nil {
		return nil, err
	}
	signup, err := services.NewSignupService(store, verifications, users, companies)
	if err != nil {
		return nil, err
	}

	return &serviceSet{
		verifications: verifications,
		users:         users,
		companies:     companies,
		signup:        signup,
	}, nil
}

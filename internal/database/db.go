package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ymango/ymango/internal/models"
)

// Config contains database connection options.
type Config struct {
	Driver string
	Path   string // SQLite database path when Driver == sqlite
	DSN    string // Optional DSN override

	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string
}

// Open initialises a gorm.DB using the provided configuration.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "sqlite":
		return openSQLite(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	case "mysql":
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// gormConfig is shared by every dialect. TranslateError lets unique violations
// surface as gorm.ErrDuplicatedKey regardless of vendor.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.UserProfile{},
		&models.UserCompany{},
		&models.EmailVerification{},
	)
}

// SeedCompanies inserts directory entries that do not exist yet, matching on domain.
// Existing rows are left untouched.
func SeedCompanies(db *gorm.DB, companies []models.Company) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	for _, company := range companies {
		company.Domain = strings.ToLower(strings.TrimSpace(company.Domain))
		company.Name = strings.TrimSpace(company.Name)
		if company.Domain == "" || company.Name == "" {
			return fmt.Errorf("seed company: name and domain are required (got %q/%q)", company.Name, company.Domain)
		}
		if err := db.Where(models.Company{Domain: company.Domain}).
			Attrs(models.Company{Name: company.Name}).
			FirstOrCreate(&models.Company{}).Error; err != nil {
			return fmt.Errorf("seed company %s: %w", company.Domain, err)
		}
	}
	return nil
}

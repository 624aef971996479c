package app

import (
	"strings"

	"github.com/ymango/ymango/internal/database"
	"github.com/ymango/ymango/internal/models"
)

// ConnectionConfig converts DatabaseConfig to the database package representation.
// Host parameters are taken from the section matching the driver.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	var auth *DBAuthConfig
	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		auth = &c.Postgres
	case "mysql":
		auth = &c.MySQL
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	if auth != nil {
		dbCfg.Host = strings.TrimSpace(auth.Host)
		dbCfg.Port = auth.Port
		dbCfg.Name = strings.TrimSpace(auth.Database)
		dbCfg.User = strings.TrimSpace(auth.Username)
		dbCfg.Password = auth.Password
		dbCfg.Options = auth.Options
	}
	return dbCfg
}

// SeedModels converts the configured seed list into directory entries.
func (c CompaniesConfig) SeedModels() []models.Company {
	if len(c.Seed) == 0 {
		return nil
	}
	out := make([]models.Company, 0, len(c.Seed))
	for _, seed := range c.Seed {
		out = append(out, models.Company{
			Name:   strings.TrimSpace(seed.Name),
			Domain: strings.ToLower(strings.TrimSpace(seed.Domain)),
		})
	}
	return out
}

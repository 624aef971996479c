package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/models"
)

type companyRepo struct {
	db *gorm.DB
}

func (r *companyRepo) FindByDomain(ctx context.Context, domain string) (models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&company).Error; err != nil {
		return models.Company{}, translate(err)
	}
	return company, nil
}

// FindByNameContains uses INSTR rather than LIKE so the match stays case-sensitive on
// SQLite and MySQL, and so "%" or "_" in the keyword are matched literally.
func (r *companyRepo) FindByNameContains(ctx context.Context, keyword string, page Page) ([]models.Company, error) {
	page = page.Normalise()

	query := r.db.WithContext(ctx).Model(&models.Company{})
	if keyword != "" {
		query = query.Where(containsClause(r.db), keyword)
	}

	var companies []models.Company
	err := query.
		Order("name ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&companies).Error
	if err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

func containsClause(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "STRPOS(name, ?) > 0"
	case "mysql":
		return "INSTR(BINARY name, BINARY ?) > 0"
	default:
		return "INSTR(name, ?) > 0"
	}
}

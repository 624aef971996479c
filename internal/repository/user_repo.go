package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile.Company.Company").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

// Create inserts the aggregate. Only the owned rows are written: the canonical company
// is referenced through CompanyID and never upserted from here.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user repository: user is required")
	}

	var canonical *models.Company
	if user.Profile != nil && user.Profile.Company != nil {
		canonical = user.Profile.Company.Company
		user.Profile.Company.Company = nil
	}

	err := r.db.WithContext(ctx).Create(user).Error

	if canonical != nil {
		user.Profile.Company.Company = canonical
	}
	return translate(err)
}

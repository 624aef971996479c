package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/models"
)

type emailVerificationRepo struct {
	db *gorm.DB
}

func (r *emailVerificationRepo) Create(ctx context.Context, verification *models.EmailVerification) error {
	return translate(r.db.WithContext(ctx).Create(verification).Error)
}

func (r *emailVerificationRepo) ExistsByCode(ctx context.Context, email, deviceID, code string, verified bool) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("email = ? AND device_id = ? AND verification_number = ? AND verified = ?", email, deviceID, code, verified).
		Limit(1).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *emailVerificationRepo) ExistsByState(ctx context.Context, email, deviceID string, verified bool) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("email = ? AND device_id = ? AND verified = ?", email, deviceID, verified).
		Limit(1).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *emailVerificationRepo) FindByCode(ctx context.Context, email, deviceID, code string, verified bool) (models.EmailVerification, error) {
	var verification models.EmailVerification
	err := r.db.WithContext(ctx).
		Where("email = ? AND device_id = ? AND verification_number = ? AND verified = ?", email, deviceID, code, verified).
		Order("created_at ASC").
		First(&verification).Error
	if err != nil {
		return models.EmailVerification{}, translate(err)
	}
	return verification, nil
}

// MarkVerified uses a conditional update so two concurrent submissions of the same
// code cannot both succeed.
func (r *emailVerificationRepo) MarkVerified(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

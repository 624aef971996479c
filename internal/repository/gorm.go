package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStore hands out GORM-backed repositories and implements Transactor.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("repository: db is required")
	}
	return &GormStore{db: db}, nil
}

// Repositories returns repositories that run outside any transaction.
func (s *GormStore) Repositories() Repositories {
	return bind(s.db)
}

// WithinTransaction implements Transactor.
func (s *GormStore) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func bind(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepo{db: db},
		Verifications: &emailVerificationRepo{db: db},
		Companies:     &companyRepo{db: db},
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	playvalidator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/repository"
	"github.com/ymango/ymango/pkg/crypto"
	apperrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/logger"
	"github.com/ymango/ymango/pkg/metrics"
	"github.com/ymango/ymango/pkg/validator"
)

// CreateAccountInput is the signup payload.
type CreateAccountInput struct {
	Email    string        `json:"email" validate:"required,email"`
	Password string        `json:"password" validate:"required"`
	Profile  *ProfileInput `json:"profile" validate:"required"`
}

// ProfileInput carries the personal attributes collected at signup.
type ProfileInput struct {
	Username   string          `json:"username" validate:"required"`
	Gender     models.Gender   `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Birthdate  time.Time       `json:"birthdate"`
	Sido       string          `json:"sido"`
	Sigungu    string          `json:"sigungu"`
	Mbti       models.Mbti     `json:"mbti" validate:"omitempty,mbti"`
	PreferMbti string          `json:"prefer_mbti" validate:"omitempty,len=4"`
	Location   models.Location `json:"location"`
	Company    *CompanyInput   `json:"company"`
}

// CompanyInput is the employer as typed by the user.
type CompanyInput struct {
	Name   *string `json:"name"`
	Domain string  `json:"domain"`
}

var registerSignupRules = sync.OnceValue(func() error {
	return validator.RegisterValidation("mbti", func(fl playvalidator.FieldLevel) bool {
		return models.Mbti(fl.Field().String()).Valid()
	})
})

// SignupService creates accounts for email addresses verified on the requesting device.
type SignupService struct {
	tx            repository.Transactor
	verifications *EmailVerificationService
	users         *UserService
	companies     *CompanyService
	log           *zap.Logger
}

// NewSignupService wires the orchestrator. Each collaborator is re-bound to the
// transaction opened by CreateAccount.
func NewSignupService(tx repository.Transactor, verifications *EmailVerificationService, users *UserService, companies *CompanyService) (*SignupService, error) {
	switch {
	case tx == nil:
		return nil, errors.New("signup service: transactor is required")
	case verifications == nil:
		return nil, errors.New("signup service: email verification service is required")
	case users == nil:
		return nil, errors.New("signup service: user service is required")
	case companies == nil:
		return nil, errors.New("signup service: company service is required")
	}
	if err := registerSignupRules(); err != nil {
		return nil, fmt.Errorf("signup service: register validation: %w", err)
	}

	return &SignupService{
		tx:            tx,
		verifications: verifications,
		users:         users,
		companies:     companies,
		log:           logger.WithModule("signup"),
	}, nil
}

// CreateAccount registers a new ACTIVE account. Steps run in a fixed order: verified
// check, duplicate check, payload validation, company resolution, insert. They share
// one transaction, so any failure leaves nothing behind. The verification row is not
// consumed and a failed attempt can be retried.
func (s *SignupService) CreateAccount(ctx context.Context, input CreateAccountInput, deviceID string) (*models.User, error) {
	ctx = ensureContext(ctx)
	input.Email = normaliseEmail(input.Email)
	deviceID = strings.TrimSpace(deviceID)

	var created *models.User
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		verifications := s.verifications.bind(repos.Verifications)
		users := s.users.bind(repos.Users)
		companies := s.companies.bind(repos.Companies)

		verified, err := verifications.HasVerifiedChallenge(ctx, input.Email, deviceID)
		if err != nil {
			return err
		}
		if !verified {
			return ErrEmailNotVerified
		}

		if _, found, err := users.FindByEmail(ctx, input.Email); err != nil {
			return err
		} else if found {
			return ErrDuplicateUser
		}

		if err := validator.ValidateStruct(input); err != nil {
			return apperrors.NewBadRequest("회원가입 정보가 올바르지 않습니다: " + err.Error())
		}

		user, err := s.buildUser(ctx, companies, input)
		if err != nil {
			return err
		}

		if err := repos.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateUser
			}
			return fmt.Errorf("signup service: create user: %w", err)
		}
		created = user
		return nil
	})
	if err != nil {
		metrics.SignupAttempts.WithLabelValues(signupResult(err)).Inc()
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			s.log.Debug("signup rejected", zap.String("email", input.Email), zap.String("code", appErr.Code))
		} else {
			s.log.Error("signup failed", zap.String("email", input.Email), zap.Error(err))
		}
		return nil, err
	}

	metrics.SignupAttempts.WithLabelValues("success").Inc()
	s.log.Info("account created", zap.String("email", created.Email), zap.String("user_id", created.ID))
	return created, nil
}

func (s *SignupService) buildUser(ctx context.Context, companies *CompanyService, input CreateAccountInput) (*models.User, error) {
	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("signup service: hash password: %w", err)
	}

	p := input.Profile
	profile := &models.UserProfile{
		Username:   strings.TrimSpace(p.Username),
		Gender:     p.Gender,
		Sido:       p.Sido,
		Sigungu:    p.Sigungu,
		Mbti:       p.Mbti,
		PreferMbti: p.PreferMbti,
		Location:   p.Location,
	}
	if !p.Birthdate.IsZero() {
		profile.Birthdate = datatypes.Date(p.Birthdate)
	}

	if p.Company != nil {
		var rawName string
		if p.Company.Name != nil {
			rawName = *p.Company.Name
		}
		resolution, err := companies.Resolve(ctx, rawName, p.Company.Domain)
		if err != nil {
			return nil, err
		}

		company := &models.UserCompany{
			Name:   p.Company.Name,
			Domain: p.Company.Domain,
		}
		if resolution.Canonical {
			canonical := resolution.Company
			company.CompanyID = &canonical.ID
			company.Company = &canonical
		}
		profile.Company = company
	}

	return &models.User{
		Email:    input.Email,
		Password: hash,
		Status:   models.UserStatusActive,
		Profile:  profile,
	}, nil
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, ErrEmailNotVerified):
		return "not_verified"
	case errors.Is(err, ErrDuplicateUser):
		return "duplicate"
	case errors.Is(err, apperrors.ErrBadRequest):
		return "invalid"
	default:
		return "error"
	}
}

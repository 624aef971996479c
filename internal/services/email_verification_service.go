package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/repository"
	"github.com/ymango/ymango/pkg/crypto"
	apperrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/logger"
	"github.com/ymango/ymango/pkg/mail"
	"github.com/ymango/ymango/pkg/metrics"
)

const defaultVerificationCodeLength = 4

// VerificationOption customises the EmailVerificationService.
type VerificationOption func(*EmailVerificationService)

// WithVerificationCodeLength sets the number of digits in generated codes.
func WithVerificationCodeLength(length int) VerificationOption {
	return func(s *EmailVerificationService) {
		if length > 0 {
			s.codeLength = length
		}
	}
}

// WithVerificationSender overrides the From address of challenge emails.
func WithVerificationSender(from string) VerificationOption {
	return func(s *EmailVerificationService) {
		s.sender = strings.TrimSpace(from)
	}
}

// WithCodeGenerator injects the code source, primarily for tests.
func WithCodeGenerator(gen func(length int) (string, error)) VerificationOption {
	return func(s *EmailVerificationService) {
		if gen != nil {
			s.generate = gen
		}
	}
}

// EmailVerificationService issues verification challenges for (email, device) pairs
// and tracks which pairs have proven control of the address.
type EmailVerificationService struct {
	verifications repository.EmailVerificationRepository
	mailer        mail.Mailer
	sender        string
	codeLength    int
	generate      func(length int) (string, error)
	log           *zap.Logger
}

// NewEmailVerificationService constructs the service. mailer may be nil, in which case
// codes are stored but never dispatched.
func NewEmailVerificationService(verifications repository.EmailVerificationRepository, mailer mail.Mailer, opts ...VerificationOption) (*EmailVerificationService, error) {
	if verifications == nil {
		return nil, errors.New("email verification service: repository is required")
	}

	service := &EmailVerificationService{
		verifications: verifications,
		mailer:        mailer,
		codeLength:    defaultVerificationCodeLength,
		generate:      crypto.GenerateNumericCode,
		log:           logger.WithModule("email_verification"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// bind returns a copy of the service operating on repo, used to join a transaction.
func (s *EmailVerificationService) bind(repo repository.EmailVerificationRepository) *EmailVerificationService {
	cpy := *s
	cpy.verifications = repo
	return &cpy
}

// IssueChallenge stores a new unverified challenge. Earlier challenges for the same
// pair stay valid; each issuance is independent.
func (s *EmailVerificationService) IssueChallenge(ctx context.Context, email, deviceID, code string) (*models.EmailVerification, error) {
	ctx = ensureContext(ctx)

	email = normaliseEmail(email)
	deviceID = strings.TrimSpace(deviceID)
	code = strings.TrimSpace(code)
	switch {
	case email == "":
		return nil, apperrors.NewBadRequest("email is required")
	case deviceID == "":
		return nil, apperrors.NewBadRequest("device id is required")
	case code == "":
		return nil, apperrors.NewBadRequest("verification number is required")
	}

	verification := &models.EmailVerification{
		Email:              email,
		DeviceID:           deviceID,
		VerificationNumber: code,
		Verified:           false,
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		metrics.ChallengesIssued.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("email verification service: create challenge: %w", err)
	}

	metrics.ChallengesIssued.WithLabelValues("success").Inc()
	s.log.Debug("challenge issued", zap.String("email", email), zap.String("device_id", deviceID))
	return verification, nil
}

// RequestChallenge generates a fresh code, stores it and emails it to the address.
// A disabled mailer is not an error; the challenge is still stored.
func (s *EmailVerificationService) RequestChallenge(ctx context.Context, email, deviceID string) (*models.EmailVerification, error) {
	ctx = ensureContext(ctx)

	code, err := s.generate(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("email verification service: generate code: %w", err)
	}

	verification, err := s.IssueChallenge(ctx, email, deviceID, code)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		msg := mail.Message{
			From:    s.sender,
			To:      []string{verification.Email},
			Subject: "[ymango] 이메일 인증번호",
			Body:    challengeBody(code),
		}
		if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
			return nil, fmt.Errorf("email verification service: send code: %w", err)
		}
	}
	return verification, nil
}

// Verify flips the unverified challenge matching (email, deviceID, code). A missing
// challenge and a wrong code both yield ErrInvalidVerification.
func (s *EmailVerificationService) Verify(ctx context.Context, email, deviceID, code string) error {
	ctx = ensureContext(ctx)

	email = normaliseEmail(email)
	deviceID = strings.TrimSpace(deviceID)
	code = strings.TrimSpace(code)
	if email == "" || deviceID == "" || code == "" {
		metrics.VerificationAttempts.WithLabelValues("invalid").Inc()
		return ErrInvalidVerification
	}

	exists, err := s.verifications.ExistsByCode(ctx, email, deviceID, code, false)
	if err != nil {
		metrics.VerificationAttempts.WithLabelValues("error").Inc()
		return fmt.Errorf("email verification service: lookup challenge: %w", err)
	}
	if !exists {
		metrics.VerificationAttempts.WithLabelValues("invalid").Inc()
		return ErrInvalidVerification
	}

	verification, err := s.verifications.FindByCode(ctx, email, deviceID, code, false)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.VerificationAttempts.WithLabelValues("invalid").Inc()
		return ErrInvalidVerification
	}
	if err != nil {
		metrics.VerificationAttempts.WithLabelValues("error").Inc()
		return fmt.Errorf("email verification service: load challenge: %w", err)
	}

	flipped, err := s.verifications.MarkVerified(ctx, verification.ID)
	if err != nil {
		metrics.VerificationAttempts.WithLabelValues("error").Inc()
		return fmt.Errorf("email verification service: mark verified: %w", err)
	}
	if !flipped {
		// Lost a race with a concurrent submission of the same code.
		metrics.VerificationAttempts.WithLabelValues("invalid").Inc()
		return ErrInvalidVerification
	}

	metrics.VerificationAttempts.WithLabelValues("verified").Inc()
	s.log.Info("email verified", zap.String("email", email), zap.String("device_id", deviceID))
	return nil
}

// HasVerifiedChallenge reports whether the pair has at least one verified challenge.
// The check does not consume the challenge.
func (s *EmailVerificationService) HasVerifiedChallenge(ctx context.Context, email, deviceID string) (bool, error) {
	ctx = ensureContext(ctx)

	email = normaliseEmail(email)
	deviceID = strings.TrimSpace(deviceID)
	if email == "" || deviceID == "" {
		return false, nil
	}

	verified, err := s.verifications.ExistsByState(ctx, email, deviceID, true)
	if err != nil {
		return false, fmt.Errorf("email verification service: check verified: %w", err)
	}
	return verified, nil
}

func challengeBody(code string) string {
	return fmt.Sprintf("안녕하세요, ymango입니다.\n\n아래 인증번호를 앱에 입력해 주세요.\n\n인증번호: %s\n\n본인이 요청하지 않았다면 이 메일을 무시하셔도 됩니다.\n", code)
}

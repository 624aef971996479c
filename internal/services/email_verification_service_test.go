package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymango/ymango/internal/models"
	apperrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/mail"
)

func TestEmailVerificationIssueAndVerify(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	issued, err := env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "1234")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)
	require.False(t, issued.Verified)

	verified, err := env.verifications.HasVerifiedChallenge(ctx, "test@test.com", "dev1")
	require.NoError(t, err)
	require.False(t, verified)

	require.NoError(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1234"))

	verified, err = env.verifications.HasVerifiedChallenge(ctx, "test@test.com", "dev1")
	require.NoError(t, err)
	require.True(t, verified)

	var stored models.EmailVerification
	require.NoError(t, env.db.First(&stored, "id = ?", issued.ID).Error)
	require.True(t, stored.Verified)
}

func TestEmailVerificationTrimsEmailAndKeepsCase(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	issued, err := env.verifications.IssueChallenge(ctx, "  Test@Test.COM ", "dev1", "1234")
	require.NoError(t, err)
	require.Equal(t, "Test@Test.COM", issued.Email)

	require.ErrorIs(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1234"), ErrInvalidVerification)
	require.NoError(t, env.verifications.Verify(ctx, "Test@Test.COM ", "dev1", "1234"))

	verified, err := env.verifications.HasVerifiedChallenge(ctx, " Test@Test.COM", "dev1")
	require.NoError(t, err)
	require.True(t, verified)

	verified, err = env.verifications.HasVerifiedChallenge(ctx, "test@test.com", "dev1")
	require.NoError(t, err)
	require.False(t, verified)
}

func TestEmailVerificationRejectsWrongCode(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, err := env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "1234")
	require.NoError(t, err)

	err = env.verifications.Verify(ctx, "test@test.com", "dev1", "9999")
	require.ErrorIs(t, err, ErrInvalidVerification)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "이메일 인증 정보가 유효하지 않습니다.", appErr.Message)

	verified, err := env.verifications.HasVerifiedChallenge(ctx, "test@test.com", "dev1")
	require.NoError(t, err)
	require.False(t, verified)
}

func TestEmailVerificationWithoutIssuance(t *testing.T) {
	env := newTestServices(t)

	err := env.verifications.Verify(context.Background(), "nobody@test.com", "dev1", "1234")
	require.ErrorIs(t, err, ErrInvalidVerification)
}

func TestEmailVerificationIsBoundToDevice(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, err := env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "1234")
	require.NoError(t, err)

	err = env.verifications.Verify(ctx, "test@test.com", "dev2", "1234")
	require.ErrorIs(t, err, ErrInvalidVerification)

	require.NoError(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1234"))

	verified, err := env.verifications.HasVerifiedChallenge(ctx, "test@test.com", "dev2")
	require.NoError(t, err)
	require.False(t, verified)
}

func TestEmailVerificationCodeIsSingleUse(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, err := env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "1234")
	require.NoError(t, err)

	require.NoError(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1234"))
	require.ErrorIs(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1234"), ErrInvalidVerification)
}

func TestEmailVerificationReissuedCodesAreIndependent(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, err := env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "1111")
	require.NoError(t, err)
	_, err = env.verifications.IssueChallenge(ctx, "test@test.com", "dev1", "2222")
	require.NoError(t, err)

	require.NoError(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "1111"))
	require.NoError(t, env.verifications.Verify(ctx, "test@test.com", "dev1", "2222"))

	var count int64
	require.NoError(t, env.db.Model(&models.EmailVerification{}).Where("verified = ?", true).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestEmailVerificationIssueValidatesInput(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	cases := []struct {
		name, email, device, code string
	}{
		{"missing email", "", "dev1", "1234"},
		{"missing device", "test@test.com", " ", "1234"},
		{"missing code", "test@test.com", "dev1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.verifications.IssueChallenge(ctx, tc.email, tc.device, tc.code)
			require.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestEmailVerificationRequestChallengeSendsCode(t *testing.T) {
	env := newTestServices(t)
	mailer := &recordingMailer{}

	svc, err := NewEmailVerificationService(env.store.Repositories().Verifications, mailer,
		WithVerificationSender("no-reply@ymango.app"),
		WithCodeGenerator(func(length int) (string, error) {
			require.Equal(t, 6, length)
			return "004217", nil
		}),
		WithVerificationCodeLength(6),
	)
	require.NoError(t, err)

	issued, err := svc.RequestChallenge(context.Background(), "Test@Test.com", "dev1")
	require.NoError(t, err)
	require.Equal(t, "004217", issued.VerificationNumber)
	require.Equal(t, "Test@Test.com", issued.Email)

	sent := mailer.messages()
	require.Len(t, sent, 1)
	require.Equal(t, "no-reply@ymango.app", sent[0].From)
	require.Equal(t, []string{"Test@Test.com"}, sent[0].To)
	require.True(t, strings.Contains(sent[0].Body, "004217"))

	require.NoError(t, svc.Verify(context.Background(), "Test@Test.com", "dev1", "004217"))
}

func TestEmailVerificationRequestChallengeMailerFailures(t *testing.T) {
	env := newTestServices(t)
	repo := env.store.Repositories().Verifications

	disabled, err := NewEmailVerificationService(repo, &recordingMailer{err: mail.ErrSMTPDisabled})
	require.NoError(t, err)
	issued, err := disabled.RequestChallenge(context.Background(), "test@test.com", "dev1")
	require.NoError(t, err)
	require.Len(t, issued.VerificationNumber, defaultVerificationCodeLength)

	broken, err := NewEmailVerificationService(repo, &recordingMailer{err: errors.New("smtp down")})
	require.NoError(t, err)
	_, err = broken.RequestChallenge(context.Background(), "test@test.com", "dev1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "smtp down")
}

func TestNewEmailVerificationServiceRequiresRepository(t *testing.T) {
	_, err := NewEmailVerificationService(nil, nil)
	require.Error(t, err)
}

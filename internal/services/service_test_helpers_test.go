package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/database/testutil"
	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/repository"
	"github.com/ymango/ymango/pkg/mail"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

type testServices struct {
	db            *gorm.DB
	store         *repository.GormStore
	verifications *EmailVerificationService
	users         *UserService
	companies     *CompanyService
	signup        *SignupService
}

func newTestServices(t *testing.T, companies ...models.Company) testServices {
	t.Helper()

	opts := []testutil.TestDBOption{testutil.WithAutoMigrate()}
	if len(companies) > 0 {
		opts = append(opts, testutil.WithCompanies(companies...))
	}
	db := testutil.MustOpenTestDB(t, opts...)

	store, err := repository.NewGormStore(db)
	require.NoError(t, err)
	repos := store.Repositories()

	verifications, err := NewEmailVerificationService(repos.Verifications, nil)
	require.NoError(t, err)
	users, err := NewUserService(repos.Users)
	require.NoError(t, err)
	companySvc, err := NewCompanyService(repos.Companies)
	require.NoError(t, err)
	signup, err := NewSignupService(store, verifications, users, companySvc)
	require.NoError(t, err)

	return testServices{
		db:            db,
		store:         store,
		verifications: verifications,
		users:         users,
		companies:     companySvc,
		signup:        signup,
	}
}

// verifyPair issues and verifies a challenge so signup can proceed.
func verifyPair(t *testing.T, svc *EmailVerificationService, email, deviceID, code string) {
	t.Helper()

	_, err := svc.IssueChallenge(context.Background(), email, deviceID, code)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(context.Background(), email, deviceID, code))
}

func strPtr(s string) *string {
	return &s
}

package repository

import (
	"context"

	"github.com/ymango/ymango/internal/models"
)

// Page selects a slice of an ordered result set. Page is 1-based.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalise clamps the page into valid bounds.
func (p Page) Normalise() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	p = p.Normalise()
	return (p.Number - 1) * p.Size
}

// UserRepository persists accounts. Email uniqueness is enforced here.
type UserRepository interface {
	// FindByEmail loads the user with its profile and company, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Create inserts the user together with its profile and company and assigns
	// identifiers. A second account for the same email yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
}

// EmailVerificationRepository stores verification challenges.
type EmailVerificationRepository interface {
	Create(ctx context.Context, verification *models.EmailVerification) error
	// ExistsByCode reports whether a row matches (email, deviceID, code, verified).
	ExistsByCode(ctx context.Context, email, deviceID, code string, verified bool) (bool, error)
	// ExistsByState reports whether a row matches (email, deviceID, verified).
	ExistsByState(ctx context.Context, email, deviceID string, verified bool) (bool, error)
	// FindByCode returns the oldest row matching (email, deviceID, code, verified), or ErrNotFound.
	FindByCode(ctx context.Context, email, deviceID, code string, verified bool) (models.EmailVerification, error)
	// MarkVerified flips an unverified row to verified. It returns false when the row
	// does not exist or was already verified.
	MarkVerified(ctx context.Context, id string) (bool, error)
}

// CompanyRepository is the read side of the company directory plus inserts for seeding.
type CompanyRepository interface {
	// FindByDomain returns the company with exactly this domain, or ErrNotFound.
	FindByDomain(ctx context.Context, domain string) (models.Company, error)
	// FindByNameContains returns companies whose name contains keyword (case-sensitive).
	// An empty keyword matches every company. Results are ordered by name then id.
	FindByNameContains(ctx context.Context, keyword string, page Page) ([]models.Company, error)
	Create(ctx context.Context, company *models.Company) error
}

// Repositories groups the stores so a unit of work can hand out a consistent set.
type Repositories struct {
	Users         UserRepository
	Verifications EmailVerificationRepository
	Companies     CompanyRepository
}

// Transactor runs fn with repositories bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

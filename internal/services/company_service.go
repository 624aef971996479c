package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/repository"
	apperrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/metrics"
)

// CompanyResolution is the outcome of resolving a user-supplied employer. When
// Canonical is false, Company is a transient value built from the input and has no ID.
type CompanyResolution struct {
	Company   models.Company
	Canonical bool
}

// CompanyService resolves employers against the company directory.
type CompanyService struct {
	companies repository.CompanyRepository
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(companies repository.CompanyRepository) (*CompanyService, error) {
	if companies == nil {
		return nil, errors.New("company service: repository is required")
	}
	return &CompanyService{companies: companies}, nil
}

func (s *CompanyService) bind(repo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: repo}
}

// Resolve looks the domain up in the directory, ignoring case and surrounding spaces.
// Without a domain, or when the domain is unknown, it returns a transient company
// carrying rawName and domain exactly as given.
func (s *CompanyService) Resolve(ctx context.Context, rawName, domain string) (CompanyResolution, error) {
	ctx = ensureContext(ctx)

	if key := strings.ToLower(strings.TrimSpace(domain)); key != "" {
		company, err := s.companies.FindByDomain(ctx, key)
		switch {
		case err == nil:
			metrics.CompanyResolutions.WithLabelValues("canonical").Inc()
			return CompanyResolution{Company: company, Canonical: true}, nil
		case !errors.Is(err, repository.ErrNotFound):
			return CompanyResolution{}, fmt.Errorf("company service: find by domain: %w", err)
		}
	}

	metrics.CompanyResolutions.WithLabelValues("transient").Inc()
	return CompanyResolution{
		Company: models.Company{Name: rawName, Domain: domain},
	}, nil
}

// ResolveEmail resolves the employer implied by the domain of an email address.
func (s *CompanyService) ResolveEmail(ctx context.Context, email string) (CompanyResolution, error) {
	domain := emailDomain(normaliseEmail(email))
	if domain == "" {
		return CompanyResolution{}, apperrors.NewBadRequest("email must contain a domain")
	}
	return s.Resolve(ctx, "", domain)
}

// SearchByName lists companies whose name contains keyword, case-sensitively. An empty
// keyword lists every company.
func (s *CompanyService) SearchByName(ctx context.Context, keyword string, page repository.Page) ([]models.Company, error) {
	ctx = ensureContext(ctx)

	companies, err := s.companies.FindByNameContains(ctx, keyword, page.Normalise())
	if err != nil {
		return nil, fmt.Errorf("company service: search: %w", err)
	}
	return companies, nil
}

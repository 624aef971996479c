package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/repository"
	"github.com/ymango/ymango/internal/services"
	appErrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/response"
)

// CompanyHandler exposes the company directory.
type CompanyHandler struct {
	service *services.CompanyService
}

// NewCompanyHandler builds the handler.
func NewCompanyHandler(service *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// GET /api/companies?keyword=&page=&per_page=
func (h *CompanyHandler) Search(c *gin.Context) {
	page := repository.Page{
		Number: parseIntQuery(c, "page", 1),
		Size:   parseIntQuery(c, "per_page", 20),
	}.Normalise()

	companies, err := h.service.SearchByName(requestContext(c), c.Query("keyword"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, companies, &response.Meta{
		Page:    page.Number,
		PerPage: page.Size,
		Count:   len(companies),
	})
}

// GET /api/companies/resolve?email= or ?domain=&name=
func (h *CompanyHandler) Resolve(c *gin.Context) {
	var (
		resolution services.CompanyResolution
		err        error
	)

	email := strings.TrimSpace(c.Query("email"))
	domain := strings.TrimSpace(c.Query("domain"))
	switch {
	case email != "":
		resolution, err = h.service.ResolveEmail(requestContext(c), email)
	case domain != "":
		resolution, err = h.service.Resolve(requestContext(c), c.Query("name"), domain)
	default:
		err = appErrors.NewBadRequest("email or domain is required")
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"company":   resolution.Company,
		"canonical": resolution.Canonical,
	})
}

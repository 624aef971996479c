package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymango/ymango/internal/handlers/testutil"
	"github.com/ymango/ymango/internal/models"
)

func TestCompanyHandler_Search(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithCompanies(
		models.Company{Name: "Kakao", Domain: "kakaocorp.com"},
		models.Company{Name: "Kakao Bank", Domain: "kakaobank.com"},
		models.Company{Name: "Naver", Domain: "navercorp.com"},
	))

	w := env.Request(http.MethodGet, "/api/companies?keyword=Kakao&per_page=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payload := testutil.DecodeResponse(t, w)
	require.NotNil(t, payload.Meta)
	require.Equal(t, 1, payload.Meta.Page)
	require.Equal(t, 1, payload.Meta.PerPage)
	require.Equal(t, 1, payload.Meta.Count)

	var companies []models.Company
	testutil.DecodeInto(t, payload.Data, &companies)
	require.Len(t, companies, 1)
	require.Equal(t, "Kakao", companies[0].Name)

	w = env.Request(http.MethodGet, "/api/companies?keyword=Kakao&page=2&per_page=1", nil)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &companies)
	require.Len(t, companies, 1)
	require.Equal(t, "Kakao Bank", companies[0].Name)

	w = env.Request(http.MethodGet, "/api/companies?keyword=kakao", nil)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &companies)
	require.Empty(t, companies)
}

func TestCompanyHandler_Resolve(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithCompanies(models.Company{Name: "Naver", Domain: "navercorp.com"}))

	type resolution struct {
		Company   models.Company `json:"company"`
		Canonical bool           `json:"canonical"`
	}

	w := env.Request(http.MethodGet, "/api/companies/resolve?email=dev@navercorp.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got resolution
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &got)
	require.True(t, got.Canonical)
	require.Equal(t, "Naver", got.Company.Name)

	q := url.Values{"domain": {"startup.io"}, "name": {"스타트업"}}
	w = env.Request(http.MethodGet, "/api/companies/resolve?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = resolution{}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &got)
	require.False(t, got.Canonical)
	require.Equal(t, "스타트업", got.Company.Name)
	require.Empty(t, got.Company.ID)

	w = env.Request(http.MethodGet, "/api/companies/resolve", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

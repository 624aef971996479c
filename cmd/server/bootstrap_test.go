package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ymango/ymango/internal/app"
	"github.com/ymango/ymango/internal/models"
)

func TestBootstrapRuntimeSeedsCompanies(t *testing.T) {
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "ymango.sqlite")
	cfg.Companies.Seed = []app.CompanySeed{
		{Name: "Kakao", Domain: "KakaoCorp.com"},
		{Name: "Naver", Domain: "navercorp.com"},
	}

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(zap.NewNop()) })

	var companies []models.Company
	require.NoError(t, stack.DB.Order("name").Find(&companies).Error)
	require.Len(t, companies, 2)
	require.Equal(t, "kakaocorp.com", companies[0].Domain)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBootstrapRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Database.Driver = "oracle"

	_, err = bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9911\n"), 0o600))

	cfg, err := loadApplicationConfig(path)
	require.NoError(t, err)
	require.Equal(t, 9911, cfg.Server.Port)

	_, err = loadApplicationConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

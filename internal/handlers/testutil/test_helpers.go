package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ymango/ymango/internal/api"
	"github.com/ymango/ymango/internal/app"
	sharedtestutil "github.com/ymango/ymango/internal/database/testutil"
	"github.com/ymango/ymango/internal/middleware"
	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/pkg/mail"
	"github.com/ymango/ymango/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	Mailer *RecordingMailer
	Config *app.Config
}

// EnvOption customises NewEnv.
type EnvOption func(*envConfig)

type envConfig struct {
	companies []models.Company
	mutate    []func(*app.Config)
}

// WithCompanies seeds the company directory.
func WithCompanies(companies ...models.Company) EnvOption {
	return func(cfg *envConfig) {
		cfg.companies = append(cfg.companies, companies...)
	}
}

// WithConfig adjusts the application config before the router is built.
func WithConfig(fn func(*app.Config)) EnvOption {
	return func(cfg *envConfig) {
		cfg.mutate = append(cfg.mutate, fn)
	}
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	envCfg := envConfig{}
	for _, opt := range opts {
		opt(&envCfg)
	}

	dbOpts := []sharedtestutil.TestDBOption{sharedtestutil.WithAutoMigrate()}
	if len(envCfg.companies) > 0 {
		dbOpts = append(dbOpts, sharedtestutil.WithCompanies(envCfg.companies...))
	}
	db := sharedtestutil.MustOpenTestDB(t, dbOpts...)

	cfg := &app.Config{
		Verification: app.VerificationConfig{
			CodeLength:    4,
			RequestLimit:  5,
			RequestWindow: time.Minute,
			VerifyLimit:   5,
			VerifyWindow:  time.Minute,
		},
		RateLimit: app.RateLimitConfig{
			Requests: 1000,
			Window:   time.Minute,
		},
	}
	cfg.Email.SMTP.From = "no-reply@ymango.test"
	for _, fn := range envCfg.mutate {
		fn(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mailer := &RecordingMailer{}
	router, err := api.NewRouter(db, cfg, middleware.NewMemoryRateStore(ctx), mailer)
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Router: router,
		Mailer: mailer,
		Config: cfg,
	}
}

// RecordingMailer captures outgoing messages instead of sending them.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

// Send implements mail.Mailer.
func (m *RecordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *RecordingMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

var codePattern = regexp.MustCompile(`인증번호: (\d+)`)

// LastCode extracts the verification code from the most recent message.
func (m *RecordingMailer) LastCode(t *testing.T) string {
	t.Helper()

	sent := m.Messages()
	require.NotEmpty(t, sent, "no verification email was sent")
	match := codePattern.FindStringSubmatch(sent[len(sent)-1].Body)
	require.Len(t, match, 2, "verification email carries no code")
	return match[1]
}

// VerifyEmail runs the request and verify endpoints for the pair.
func (e *Env) VerifyEmail(email, deviceID string) {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/email-verifications", map[string]string{
		"email":     email,
		"device_id": deviceID,
	})
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	w = e.Request(http.MethodPost, "/api/email-verifications/verify", map[string]string{
		"email":               email,
		"device_id":           deviceID,
		"verification_number": e.Mailer.LastCode(e.T),
	})
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding automatically.
func (e *Env) Request(method, path string, body any) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

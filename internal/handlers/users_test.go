package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymango/ymango/internal/handlers/testutil"
	"github.com/ymango/ymango/internal/models"
)

func signupBody(email, deviceID string) map[string]any {
	return map[string]any{
		"device_id": deviceID,
		"email":     email,
		"password":  "password1!",
		"profile": map[string]any{
			"username":    "tester",
			"gender":      "male",
			"birthdate":   "1994-07-21",
			"sido":        "경기도",
			"sigungu":     "성남시",
			"mbti":        "istj",
			"prefer_mbti": "ENFP",
			"location":    map[string]float64{"latitude": 37.39, "longitude": 127.11},
			"company":     map[string]any{"name": "카카오", "domain": "kakaocorp.com"},
		},
	}
}

type userPayload struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Profile struct {
		Username string `json:"username"`
		Gender   string `json:"gender"`
		Mbti     string `json:"mbti"`
		Company  struct {
			Name      string  `json:"name"`
			Domain    string  `json:"domain"`
			CompanyID *string `json:"company_id"`
		} `json:"company"`
	} `json:"profile"`
}

func TestUserHandler_SignupFlow(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithCompanies(models.Company{Name: "Kakao", Domain: "kakaocorp.com"}))
	env.VerifyEmail("test@test.com", "dev1")

	w := env.Request(http.MethodPost, "/api/users", signupBody("test@test.com", "dev1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotContains(t, w.Body.String(), "password1!")

	var created userPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ACTIVE", created.Status)
	require.Equal(t, "MALE", created.Profile.Gender)
	require.Equal(t, "ISTJ", created.Profile.Mbti)
	require.NotNil(t, created.Profile.Company.CompanyID)

	w = env.Request(http.MethodGet, "/api/users/by-email?email=test@test.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched userPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &fetched)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "tester", fetched.Profile.Username)
	require.Equal(t, "카카오", fetched.Profile.Company.Name)
	require.Equal(t, "kakaocorp.com", fetched.Profile.Company.Domain)
}

func TestUserHandler_SignupRequiresVerification(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/users", signupBody("test@test.com", "dev1"))
	require.Equal(t, http.StatusForbidden, w.Code)
	payload := testutil.DecodeResponse(t, w)
	require.Equal(t, "EMAIL_NOT_VERIFIED", payload.Error.Code)
	require.Equal(t, "이메일이 인증되지 않았습니다.", payload.Error.Message)
}

func TestUserHandler_SignupDuplicate(t *testing.T) {
	env := testutil.NewEnv(t)
	env.VerifyEmail("test@gmail.com", "dev1")

	w := env.Request(http.MethodPost, "/api/users", signupBody("test@gmail.com", "dev1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.Request(http.MethodPost, "/api/users", signupBody("test@gmail.com", "dev1"))
	require.Equal(t, http.StatusConflict, w.Code)
	payload := testutil.DecodeResponse(t, w)
	require.Equal(t, "USER_ALREADY_EXISTS", payload.Error.Code)
	require.Equal(t, "이미 존재하는 사용자입니다.", payload.Error.Message)
}

func TestUserHandler_SignupBadPayload(t *testing.T) {
	env := testutil.NewEnv(t)
	env.VerifyEmail("test@test.com", "dev1")

	body := signupBody("test@test.com", "dev1")
	body["profile"].(map[string]any)["birthdate"] = "21/07/1994"
	w := env.Request(http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = signupBody("test@test.com", "dev1")
	body["profile"].(map[string]any)["mbti"] = "XXXX"
	w = env.Request(http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = signupBody("test@test.com", "")
	w = env.Request(http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_GetByEmailNotFound(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/users/by-email?email=missing@test.com", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	payload := testutil.DecodeResponse(t, w)
	require.Equal(t, "USER_NOT_FOUND", payload.Error.Code)
	require.Equal(t, "사용자를 찾을 수 없습니다.", payload.Error.Message)

	w = env.Request(http.MethodGet, "/api/users/by-email", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/services"
	appErrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/response"
)

const birthdateLayout = "2006-01-02"

// UserHandler serves signup and account lookup.
type UserHandler struct {
	signup *services.SignupService
	users  *services.UserService
}

// createUserRequest is only decoded here; field rules are enforced by the signup
// service after the verification check.
type createUserRequest struct {
	DeviceID string          `json:"device_id"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Profile  *profileRequest `json:"profile"`
}

type profileRequest struct {
	Username   string          `json:"username"`
	Gender     string          `json:"gender"`
	Birthdate  string          `json:"birthdate"`
	Sido       string          `json:"sido"`
	Sigungu    string          `json:"sigungu"`
	Mbti       string          `json:"mbti"`
	PreferMbti string          `json:"prefer_mbti"`
	Location   models.Location `json:"location"`
	Company    *companyRequest `json:"company"`
}

type companyRequest struct {
	Name   *string `json:"name"`
	Domain string  `json:"domain"`
}

// NewUserHandler builds the handler.
func NewUserHandler(signup *services.SignupService, users *services.UserService) *UserHandler {
	return &UserHandler{signup: signup, users: users}
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return
	}

	deviceID := strings.TrimSpace(body.DeviceID)
	if deviceID == "" {
		response.Error(c, appErrors.NewBadRequest("device id is required"))
		return
	}

	input, err := body.toInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.signup.CreateAccount(requestContext(c), input, deviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// GET /api/users/by-email?email=
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, appErrors.NewBadRequest("email is required"))
		return
	}

	user, err := h.users.GetUser(requestContext(c), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (r createUserRequest) toInput() (services.CreateAccountInput, error) {
	input := services.CreateAccountInput{
		Email:    r.Email,
		Password: r.Password,
	}
	if r.Profile == nil {
		return input, nil
	}

	p := r.Profile
	profile := &services.ProfileInput{
		Username:   p.Username,
		Gender:     models.Gender(strings.ToUpper(strings.TrimSpace(p.Gender))),
		Sido:       p.Sido,
		Sigungu:    p.Sigungu,
		Mbti:       models.Mbti(strings.ToUpper(strings.TrimSpace(p.Mbti))),
		PreferMbti: strings.ToUpper(strings.TrimSpace(p.PreferMbti)),
		Location:   p.Location,
	}
	if raw := strings.TrimSpace(p.Birthdate); raw != "" {
		birthdate, err := time.Parse(birthdateLayout, raw)
		if err != nil {
			return input, appErrors.NewBadRequest("birthdate must use the YYYY-MM-DD format")
		}
		profile.Birthdate = birthdate
	}
	if p.Company != nil {
		profile.Company = &services.CompanyInput{
			Name:   p.Company.Name,
			Domain: strings.TrimSpace(p.Company.Domain),
		}
	}

	input.Profile = profile
	return input, nil
}

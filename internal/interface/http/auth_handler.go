package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/internal/domain/entity"
	"github.com/oksasatya/campus-connect/internal/interface/middleware"
	"github.com/oksasatya/campus-connect/pkg/response"
	"github.com/oksasatya/campus-connect/pkg/validation"
)

// AccountService is the subset of application.AccountService the auth
// routes need.
type AccountService interface {
	Signup(ctx context.Context, in application.SignupInput) (*application.AuthResult, error)
	Login(ctx context.Context, email, password string) (*application.AuthResult, error)
	Me(ctx context.Context, accountID string) (*entity.Account, error)
	UpdateProfileSetup(ctx context.Context, accountID string, in application.ProfileSetupInput) (*entity.Account, error)
	UpdatePreferences(ctx context.Context, accountID string, in application.PreferencesInput) (*entity.Account, error)
}

type AuthHandler struct {
	Svc    AccountService
	Logger *logrus.Logger
}

func NewAuthHandler(svc AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Name      string `json:"name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,max=72"`
	CollegeID string `json:"collegeId" binding:"required,uuid"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileSetupRequest struct {
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Photos    []string `json:"photos"`
}

type preferencesRequest struct {
	PreferredAgeMin   int    `json:"preferredAgeMin"`
	PreferredAgeMax   int    `json:"preferredAgeMax"`
	PreferredDistance int    `json:"preferredDistance"`
	PreferredGender   string `json:"preferredGender"`
}

type accountPayload struct {
	User    application.PublicAccount `json:"user"`
	Profile application.Profile       `json:"profile"`
}

func newAccountPayload(a *entity.Account) accountPayload {
	return accountPayload{User: application.NewPublicAccount(a), Profile: application.NewProfile(a)}
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		CollegeID: req.CollegeID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Account created successfully")
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Login successful")
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	a, err := h.Svc.Me(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newAccountPayload(a), "")
}

// PATCH /api/auth/profile-setup
func (h *AuthHandler) ProfileSetup(c *gin.Context) {
	var req profileSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateProfileSetup(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.ProfileSetupInput{
		Bio:       req.Bio,
		Interests: req.Interests,
		Photos:    req.Photos,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newAccountPayload(a), "Profile updated successfully")
}

// PATCH /api/auth/preferences
func (h *AuthHandler) Preferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdatePreferences(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PreferencesInput{
		AgeMin:   req.PreferredAgeMin,
		AgeMax:   req.PreferredAgeMax,
		Distance: req.PreferredDistance,
		Gender:   req.PreferredGender,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newAccountPayload(a), "Preferences updated successfully")
}

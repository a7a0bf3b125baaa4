package auth

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// forgotPasswordMessage is returned whether or not the email is registered.
const forgotPasswordMessage = "If that email exists, a reset code has been sent"

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type completeProfileRequest struct {
	Age      *float64 `json:"age"`
	Identity string   `json:"identity"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, username and password are required")
	}
	if NormalizeUsername(req.Username) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Username is required")
	}

	h.log.Info("handling signup request", zap.String("email", req.Email))

	account, err := h.service.Signup(req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		case errors.Is(err, ErrUsernameTaken):
			return fiber.NewError(fiber.StatusConflict, "Username already taken")
		case errors.Is(err, ErrAccountExists):
			return fiber.NewError(fiber.StatusConflict, "User already exists")
		case errors.Is(err, ErrDeliveryFailed):
			h.log.Error("signup rolled back after delivery failure",
				zap.String("email", req.Email),
				zap.Error(err))
			return fiber.NewError(fiber.StatusBadGateway, "Failed to send verification email")
		}
		h.log.Error("signup failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. Check your email for a verification code.",
		"email":   account.Email,
	})
}

func (h *Handler) ResendVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email is required")
	}

	if err := h.service.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound):
			return fiber.NewError(fiber.StatusBadRequest, "No account found for this email")
		case errors.Is(err, ErrAlreadyVerified):
			return fiber.NewError(fiber.StatusBadRequest, "Email is already verified")
		case errors.Is(err, ErrDeliveryFailed):
			return fiber.NewError(fiber.StatusBadGateway, "Failed to send verification email")
		}
		h.log.Error("resend verification failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and code are required")
	}

	token, account, err := h.service.VerifyEmail(req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		case errors.Is(err, ErrInvalidCode):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired code")
		}
		h.log.Error("email verification failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  account.Projection(),
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	token, account, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, ErrNotVerified):
			return fiber.NewError(fiber.StatusForbidden, "Email not verified")
		}
		h.log.Error("login failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  account.Projection(),
	})
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email is required")
	}

	if err := h.service.ForgotPassword(req.Email); err != nil {
		if errors.Is(err, ErrDeliveryFailed) {
			return fiber.NewError(fiber.StatusBadGateway, "Failed to send reset email")
		}
		h.log.Error("forgot password failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"message": forgotPasswordMessage})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, code and new password are required")
	}
	if len(strings.TrimSpace(req.NewPassword)) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
	}

	if err := h.service.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired code")
		}
		h.log.Error("password reset failed", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

func (h *Handler) CompleteProfile(c *fiber.Ctx) error {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	var req completeProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Age == nil || *req.Age != math.Trunc(*req.Age) || *req.Age < 13 || *req.Age > 120 {
		return fiber.NewError(fiber.StatusBadRequest, "Enter a valid age between 13 and 120")
	}
	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Identity is required")
	}

	account, err := h.service.CompleteProfile(claims.UserID, int(*req.Age), identity)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		h.log.Error("profile completion failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"profile": fiber.Map{
			"age":                 *account.Age,
			"identity":            *account.Identity,
			"onboardingCompleted": account.OnboardingCompleted,
		},
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	account, err := h.service.GetSelf(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		h.log.Error("self lookup failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"user": account.FullProjection()})
}

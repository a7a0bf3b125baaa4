package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		},
	})

	h := NewHandler(svc, newTestLogger(t))
	m := NewMiddleware(svc.config)

	app.Post("/auth/signup", h.Signup)
	app.Post("/auth/register", h.Signup)
	app.Post("/auth/resend-verification", h.ResendVerification)
	app.Post("/auth/verify-email", h.VerifyEmail)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/forgot-password", h.ForgotPassword)
	app.Post("/auth/reset-password", h.ResetPassword)
	app.Post("/auth/profile", m.RequireAuth, h.CompleteProfile)
	app.Get("/auth/me", m.RequireAuth, h.Me)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid signup",
			body:       `{"email":"a@x.com","username":"Chef1","password":"secret1"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing fields",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email, username and password are required",
		},
		{
			name:       "whitespace username",
			body:       `{"email":"a@x.com","username":"   ","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			app := newTestApp(t, svc)

			status, body := postJSON(t, app, "/auth/signup", tt.body, "")
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, "a@x.com", body["email"])
			assert.NotEmpty(t, body["message"])
		})
	}

	t.Run("register alias behaves like signup", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		app := newTestApp(t, svc)

		status, _ := postJSON(t, app, "/auth/register", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		app := newTestApp(t, svc)

		status, _ := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
		require.Equal(t, http.StatusCreated, status)

		status, body := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef2","password":"secret1"}`, "")
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Email already registered", body["error"])

		status, body = postJSON(t, app, "/auth/signup", `{"email":"b@x.com","username":"CHEF1","password":"secret1"}`, "")
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Username already taken", body["error"])
	})

	t.Run("delivery failure maps to bad gateway", func(t *testing.T) {
		svc, _, mail := newTestService(t)
		mail.failSend = true
		app := newTestApp(t, svc)

		status, body := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "Failed to send verification email", body["error"])
	})
}

func TestHandler_VerifyAndLoginFlow(t *testing.T) {
	svc, _, mail := newTestService(t)
	app := newTestApp(t, svc)

	status, _ := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"Chef1","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)

	// Wrong code first.
	status, body := postJSON(t, app, "/auth/verify-email", `{"email":"a@x.com","code":"000000"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid or expired code", body["error"])

	// Login is forbidden while unverified.
	status, body = postJSON(t, app, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Email not verified", body["error"])

	// Correct code issues a session.
	status, body = postJSON(t, app, "/auth/verify-email", `{"email":"a@x.com","code":"`+mail.lastCode(t)+`"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "chef1", user["username"])
	assert.Equal(t, false, user["onboardingCompleted"])

	// Verifying again with a garbage code still succeeds.
	status, body = postJSON(t, app, "/auth/verify-email", `{"email":"a@x.com","code":"garbage"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	// Login now works.
	status, body = postJSON(t, app, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, false, user["onboardingCompleted"])

	// Bad credentials are unauthorized.
	status, body = postJSON(t, app, "/auth/login", `{"email":"a@x.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	// Complete the profile over the authenticated route.
	status, body = postJSON(t, app, "/auth/profile", `{"age":30,"identity":"home cook"}`, token)
	require.Equal(t, http.StatusOK, status)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, float64(30), profile["age"])
	assert.Equal(t, "home cook", profile["identity"])
	assert.Equal(t, true, profile["onboardingCompleted"])

	// /auth/me reflects the change.
	status, body = getJSON(t, app, "/auth/me", token)
	require.Equal(t, http.StatusOK, status)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, true, user["onboardingCompleted"])
	assert.Equal(t, true, user["emailVerified"])
}

func TestHandler_CompleteProfileValidation(t *testing.T) {
	svc, _, mail := newTestService(t)
	app := newTestApp(t, svc)

	status, _ := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)
	status, body := postJSON(t, app, "/auth/verify-email", `{"email":"a@x.com","code":"`+mail.lastCode(t)+`"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "age missing", body: `{"identity":"home cook"}`, wantError: "Enter a valid age between 13 and 120"},
		{name: "age too small", body: `{"age":12,"identity":"home cook"}`, wantError: "Enter a valid age between 13 and 120"},
		{name: "age too large", body: `{"age":121,"identity":"home cook"}`, wantError: "Enter a valid age between 13 and 120"},
		{name: "age fractional", body: `{"age":30.5,"identity":"home cook"}`, wantError: "Enter a valid age between 13 and 120"},
		{name: "identity blank", body: `{"age":30,"identity":"   "}`, wantError: "Identity is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/auth/profile", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestHandler_ForgotPassword_NoEnumeration(t *testing.T) {
	svc, _, _ := newTestService(t)
	app := newTestApp(t, svc)

	status, _ := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)

	statusKnown, bodyKnown := postJSON(t, app, "/auth/forgot-password", `{"email":"a@x.com"}`, "")
	statusUnknown, bodyUnknown := postJSON(t, app, "/auth/forgot-password", `{"email":"nobody@x.com"}`, "")

	assert.Equal(t, http.StatusOK, statusKnown)
	assert.Equal(t, http.StatusOK, statusUnknown)
	assert.Equal(t, bodyKnown["message"], bodyUnknown["message"],
		"response must not reveal whether the email exists")
}

func TestHandler_ResetPassword(t *testing.T) {
	svc, _, mail := newTestService(t)
	app := newTestApp(t, svc)

	status, _ := postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)
	status, _ = postJSON(t, app, "/auth/forgot-password", `{"email":"a@x.com"}`, "")
	require.Equal(t, http.StatusOK, status)
	code := mail.lastCode(t)

	t.Run("short password rejected before the code is checked", func(t *testing.T) {
		status, body := postJSON(t, app, "/auth/reset-password", `{"email":"a@x.com","code":"`+code+`","newPassword":"five5"}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Password must be at least 6 characters", body["error"])
	})

	t.Run("bad code rejected", func(t *testing.T) {
		status, body := postJSON(t, app, "/auth/reset-password", `{"email":"a@x.com","code":"000000","newPassword":"newsecret"}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid or expired code", body["error"])
	})

	t.Run("valid reset", func(t *testing.T) {
		status, body := postJSON(t, app, "/auth/reset-password", `{"email":"a@x.com","code":"`+code+`","newPassword":"newsecret"}`, "")
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["message"])
	})
}

func TestHandler_ResendVerification(t *testing.T) {
	svc, _, _ := newTestService(t)
	app := newTestApp(t, svc)

	status, body := postJSON(t, app, "/auth/resend-verification", `{"email":"nobody@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No account found for this email", body["error"])

	status, _ = postJSON(t, app, "/auth/signup", `{"email":"a@x.com","username":"chef1","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)

	status, body = postJSON(t, app, "/auth/resend-verification", `{"email":"a@x.com"}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["message"])
}

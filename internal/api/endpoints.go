package api

// HTTP endpoint paths
const (
	Health = "/health"

	// Account lifecycle endpoints
	AuthSignup             = "/auth/signup"
	AuthRegister           = "/auth/register" // alias of AuthSignup
	AuthResendVerification = "/auth/resend-verification"
	AuthVerifyEmail        = "/auth/verify-email"
	AuthLogin              = "/auth/login"
	AuthForgotPassword     = "/auth/forgot-password"
	AuthResetPassword      = "/auth/reset-password"
	AuthProfile            = "/auth/profile"
	AuthMe                 = "/auth/me"

	// Per-user resource endpoints
	Pantry           = "/pantry"
	Uploads          = "/uploads"
	UploadByID       = "/uploads/:id"
	NutritionBarcode = "/nutrition/barcode"
)

// PublicEndpoints defines endpoints that don't require authentication
var PublicEndpoints = map[string]bool{
	Health:                 true,
	AuthSignup:             true,
	AuthRegister:           true,
	AuthResendVerification: true,
	AuthVerifyEmail:        true,
	AuthLogin:              true,
	AuthForgotPassword:     true,
	AuthResetPassword:      true,
}

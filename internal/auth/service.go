package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/homecook/internal/config"
	"github.com/elskow/homecook/internal/mailer"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrDeliveryFailed     = errors.New("code delivery failed")
)

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	mailer     mailer.Mailer
}

type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository, mail mailer.Mailer) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
		mailer:     mail,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *Service) GenerateToken(userID uint, email string) (string, error) {
	expirationTime := time.Now().Add(s.config.TokenExpiration)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateToken collapses all failure modes (bad signature, malformed,
// expired) into a single invalid-token error; callers only learn valid or
// not.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// NormalizeUsername is applied before every username lookup or insert.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *Service) Signup(email, username, password string) (*Account, error) {
	username = NormalizeUsername(username)

	if _, err := s.repository.GetAccountByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}
	if _, err := s.repository.GetAccountByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.repository.CreateAccount(account); err != nil {
		return nil, err
	}

	if err := s.issueVerificationCode(account); err != nil {
		// Signup is all-or-nothing from the caller's view: roll the row
		// back before surfacing the delivery failure.
		if delErr := s.repository.DeleteAccount(account.ID); delErr != nil {
			s.log.Error("failed to roll back account after delivery failure",
				zap.Uint("account_id", account.ID),
				zap.Error(delErr))
		}
		return nil, err
	}

	return account, nil
}

func (s *Service) ResendVerification(email string) error {
	account, err := s.repository.GetAccountByEmail(email)
	if err != nil {
		return err
	}

	if account.EmailVerified {
		return ErrAlreadyVerified
	}

	return s.issueVerificationCode(account)
}

func (s *Service) VerifyEmail(email, code string) (string, *Account, error) {
	account, err := s.repository.GetAccountByEmail(email)
	if err != nil {
		return "", nil, err
	}

	// Re-verifying an already-verified account succeeds without a code
	// check so the client can safely retry.
	if !account.EmailVerified {
		if !codeMatches(account.VerificationCode, account.VerificationExpiresAt, code) {
			return "", nil, ErrInvalidCode
		}

		if err := s.repository.MarkVerified(account.ID); err != nil {
			return "", nil, err
		}

		account.EmailVerified = true
		account.VerificationCode = nil
		account.VerificationExpiresAt = nil
	}

	token, err := s.GenerateToken(account.ID, account.Email)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

func (s *Service) Login(email, password string) (string, *Account, error) {
	account, err := s.repository.GetAccountByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.HashPassword("dummy") // Prevent timing attacks
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.CheckPasswordHash(password, account.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if !account.EmailVerified {
		return "", nil, ErrNotVerified
	}

	token, err := s.GenerateToken(account.ID, account.Email)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

// ForgotPassword never reports whether the email is registered. A delivery
// failure is surfaced only when the account exists.
func (s *Service) ForgotPassword(email string) error {
	account, err := s.repository.GetAccountByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.CodeExpiration)
	if err := s.repository.SetResetCode(account.ID, code, expiresAt); err != nil {
		return err
	}

	sent, err := s.mailer.SendPasswordResetCode(account.Email, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if !sent {
		s.log.Warn("password reset code issued without email delivery",
			zap.String("email", account.Email),
			zap.String("code", code))
	}

	return nil
}

func (s *Service) ResetPassword(email, code, newPassword string) error {
	account, err := s.repository.GetAccountByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Same answer as a bad code, so reset cannot be used to
			// probe for accounts.
			return ErrInvalidCode
		}
		return err
	}

	if !codeMatches(account.ResetCode, account.ResetExpiresAt, code) {
		return ErrInvalidCode
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.repository.UpdatePassword(account.ID, hash)
}

func (s *Service) CompleteProfile(userID uint, age int, identity string) (*Account, error) {
	account, err := s.repository.GetAccountByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.repository.CompleteProfile(account.ID, age, identity); err != nil {
		return nil, err
	}

	account.Age = &age
	account.Identity = &identity
	account.OnboardingCompleted = true
	return account, nil
}

func (s *Service) GetSelf(userID uint) (*Account, error) {
	return s.repository.GetAccountByID(userID)
}

func (s *Service) issueVerificationCode(account *Account) error {
	code, err := s.generateCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.CodeExpiration)
	if err := s.repository.SetVerificationCode(account.ID, code, expiresAt); err != nil {
		return err
	}

	sent, err := s.mailer.SendVerificationCode(account.Email, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if !sent {
		s.log.Warn("verification code issued without email delivery",
			zap.String("email", account.Email),
			zap.String("code", code))
	}

	return nil
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func (s *Service) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// codeMatches checks a stored one-time code against user input. The code is
// valid only while its expiry is in the future and the trimmed input matches
// exactly.
func codeMatches(stored *string, expiresAt *time.Time, input string) bool {
	if stored == nil || expiresAt == nil {
		return false
	}
	if time.Now().After(*expiresAt) {
		return false
	}
	return *stored == strings.TrimSpace(input)
}

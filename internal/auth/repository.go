package auth

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

type Repository interface {
	CreateAccount(account *Account) error
	GetAccountByEmail(email string) (*Account, error)
	GetAccountByUsername(username string) (*Account, error)
	GetAccountByID(id uint) (*Account, error)
	// DeleteAccount removes the row outright. Used only for the signup
	// compensating delete, so the unique email/username stay reusable.
	DeleteAccount(id uint) error
	SetVerificationCode(id uint, code string, expiresAt time.Time) error
	MarkVerified(id uint) error
	SetResetCode(id uint, code string, expiresAt time.Time) error
	UpdatePassword(id uint, passwordHash string) error
	CompleteProfile(id uint, age int, identity string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const uniqueViolation = "23505"

// translateCreateError maps a driver-level unique violation onto
// ErrAccountExists. The gorm postgres driver runs on pgx, so the
// violation arrives as *pgconn.PgError.
func translateCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAccountExists
	}
	return err
}

func (r *repository) CreateAccount(account *Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return translateCreateError(err)
	}
	return nil
}

func (r *repository) GetAccountByEmail(email string) (*Account, error) {
	var account Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetAccountByUsername(username string) (*Account, error) {
	var account Account
	if err := r.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetAccountByID(id uint) (*Account, error) {
	var account Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) DeleteAccount(id uint) error {
	return r.db.Unscoped().Delete(&Account{}, id).Error
}

func (r *repository) SetVerificationCode(id uint, code string, expiresAt time.Time) error {
	return r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verification_code":       code,
		"verification_expires_at": expiresAt,
	}).Error
}

func (r *repository) MarkVerified(id uint) error {
	return r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"email_verified":          true,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}).Error
}

func (r *repository) SetResetCode(id uint, code string, expiresAt time.Time) error {
	return r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_code":       code,
		"reset_expires_at": expiresAt,
	}).Error
}

func (r *repository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":    passwordHash,
		"reset_code":       nil,
		"reset_expires_at": nil,
	}).Error
}

func (r *repository) CompleteProfile(id uint, age int, identity string) error {
	return r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"age":                  age,
		"identity":             identity,
		"onboarding_completed": true,
	}).Error
}

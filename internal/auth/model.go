package auth

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	ID                    uint   `gorm:"primaryKey"`
	Email                 string `gorm:"uniqueIndex;not null"`
	Username              string `gorm:"uniqueIndex;not null"`
	PasswordHash          string `gorm:"not null"`
	EmailVerified         bool   `gorm:"not null;default:false"`
	VerificationCode      *string
	VerificationExpiresAt *time.Time
	ResetCode             *string
	ResetExpiresAt        *time.Time
	Age                   *int
	Identity              *string
	OnboardingCompleted   bool `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (Account) TableName() string {
	return "users"
}

// Projection is the account view returned to clients. The password hash and
// lifecycle codes never leave the service.
type Projection struct {
	ID                  uint   `json:"id"`
	Email               string `json:"email"`
	Username            string `json:"username"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// FullProjection extends Projection for the /auth/me endpoint.
type FullProjection struct {
	ID                  uint    `json:"id"`
	Email               string  `json:"email"`
	Username            string  `json:"username"`
	EmailVerified       bool    `json:"emailVerified"`
	Age                 *int    `json:"age"`
	Identity            *string `json:"identity"`
	OnboardingCompleted bool    `json:"onboardingCompleted"`
}

func (a *Account) Projection() Projection {
	return Projection{
		ID:                  a.ID,
		Email:               a.Email,
		Username:            a.Username,
		OnboardingCompleted: a.OnboardingCompleted,
	}
}

func (a *Account) FullProjection() FullProjection {
	return FullProjection{
		ID:                  a.ID,
		Email:               a.Email,
		Username:            a.Username,
		EmailVerified:       a.EmailVerified,
		Age:                 a.Age,
		Identity:            a.Identity,
		OnboardingCompleted: a.OnboardingCompleted,
	}
}

package auth

import (
	"sync"
	"time"
)

type mockRepository struct {
	accounts map[uint]*Account
	nextID   uint
	mu       sync.RWMutex
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: make(map[uint]*Account),
		nextID:   1,
	}
}

func (r *mockRepository) CreateAccount(account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return ErrAccountExists
		}
	}

	account.ID = r.nextID
	r.nextID++
	account.CreatedAt = time.Now()

	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *mockRepository) GetAccountByEmail(email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			copy := *account
			return &copy, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *mockRepository) GetAccountByUsername(username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Username == username {
			copy := *account
			return &copy, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *mockRepository) GetAccountByID(id uint) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	copy := *account
	return &copy, nil
}

func (r *mockRepository) DeleteAccount(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

func (r *mockRepository) SetVerificationCode(id uint, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.VerificationCode = &code
	account.VerificationExpiresAt = &expiresAt
	return nil
}

func (r *mockRepository) MarkVerified(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.EmailVerified = true
	account.VerificationCode = nil
	account.VerificationExpiresAt = nil
	return nil
}

func (r *mockRepository) SetResetCode(id uint, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.ResetCode = &code
	account.ResetExpiresAt = &expiresAt
	return nil
}

func (r *mockRepository) UpdatePassword(id uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	account.ResetCode = nil
	account.ResetExpiresAt = nil
	return nil
}

func (r *mockRepository) CompleteProfile(id uint, age int, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.Age = &age
	account.Identity = &identity
	account.OnboardingCompleted = true
	return nil
}

// expireVerification backdates the stored verification expiry, for tests.
func (r *mockRepository) expireVerification(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, exists := r.accounts[id]; exists && account.VerificationExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		account.VerificationExpiresAt = &past
	}
}

// expireReset backdates the stored reset expiry, for tests.
func (r *mockRepository) expireReset(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, exists := r.accounts[id]; exists && account.ResetExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		account.ResetExpiresAt = &past
	}
}

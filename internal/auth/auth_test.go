package auth

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:       "test-secret-key",
		TokenExpiration: time.Hour,
		CodeExpiration:  15 * time.Minute,
	}
}

type sentMail struct {
	email string
	code  string
	kind  string
}

// mockMailer records deliveries. configured=false mimics a missing provider
// API key (soft skip); failSend mimics a configured provider whose send
// fails hard.
type mockMailer struct {
	configured bool
	failSend   bool

	mu   sync.Mutex
	sent []sentMail
}

func newMockMailer() *mockMailer {
	return &mockMailer{configured: true}
}

func (m *mockMailer) SendVerificationCode(email, code string) (bool, error) {
	return m.send(email, code, "verification")
}

func (m *mockMailer) SendPasswordResetCode(email, code string) (bool, error) {
	return m.send(email, code, "reset")
}

func (m *mockMailer) send(email, code, kind string) (bool, error) {
	if !m.configured {
		return false, nil
	}
	if m.failSend {
		return false, errors.New("provider rejected the message")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{email: email, code: code, kind: kind})
	return true, nil
}

func (m *mockMailer) lastCode(t *testing.T) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no mail recorded")
	}
	return m.sent[len(m.sent)-1].code
}

func newTestService(t *testing.T) (*Service, *mockRepository, *mockMailer) {
	repo := newMockRepository()
	mail := newMockMailer()
	svc := NewService(newTestConfig(), newTestLogger(t), repo, mail)
	return svc, repo, mail
}

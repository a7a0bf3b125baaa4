package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/config"
)

func TestUnconfiguredProviderIsSoftSkip(t *testing.T) {
	log, err := zap.NewDevelopment()
	require.NoError(t, err)

	m := NewMailer(&config.EmailConfig{APIKey: ""}, log)

	sent, err := m.SendVerificationCode("a@x.com", "123456")
	assert.NoError(t, err, "missing provider must not fail the request")
	assert.False(t, sent)

	sent, err = m.SendPasswordResetCode("a@x.com", "123456")
	assert.NoError(t, err)
	assert.False(t, sent)
}

func TestCodeEmailHTML(t *testing.T) {
	html := codeEmailHTML("Verify your HomeCook account", "Use this code to verify your email:", "123456")

	assert.True(t, strings.Contains(html, "123456"))
	assert.True(t, strings.Contains(html, "expires in 15 minutes"))
}

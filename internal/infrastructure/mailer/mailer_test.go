package mailer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qupid-app/qupid-backend/internal/config"
)

var mailCfg = &config.MailConfig{
	SendGridAPIKey: "SG.test-key",
	FromAddress:    "no-reply@qupid.app",
	FromName:       "Qupid",
}

func TestSendGridMailer_SendPasswordReset(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer(mailCfg, srv.URL, zap.NewNop())
	err := m.SendPasswordReset(context.Background(), "sam@example.com", "https://qupid.app/reset?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer SG.test-key", gotAuth)
	assert.Contains(t, gotBody, "sam@example.com")
	assert.Contains(t, gotBody, "https://qupid.app/reset?token=abc")
	assert.Contains(t, gotBody, "no-reply@qupid.app")
}

func TestSendGridMailer_RejectedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendGridMailer(mailCfg, srv.URL, zap.NewNop())
	err := m.SendPasswordReset(context.Background(), "sam@example.com", "link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	m := New(&config.MailConfig{}, logger)
	_, ok := m.(*LogMailer)
	require.True(t, ok)

	require.NoError(t, m.SendPasswordReset(context.Background(), "sam@example.com", "reset-link"))

	entries := logs.FilterMessage("password reset requested").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "reset-link", entries[0].ContextMap()["link"])
}

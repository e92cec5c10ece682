package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/campus-grievance/grievance-service/internal/config"
)

func TestNewMailerWithoutHostLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mailer, err := NewMailer(config.SMTPConfig{}, zap.New(core))
	require.NoError(t, err)
	require.IsType(t, &LogMailer{}, mailer)

	require.NoError(t, mailer.Send(context.Background(), Message{To: "s@campus.edu", Subject: "hi"}))
	entries := logs.FilterMessage("mail not sent; no SMTP relay configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "s@campus.edu", entries[0].ContextMap()["to"])
}

func TestNewMailerWithHost(t *testing.T) {
	mailer, err := NewMailer(config.SMTPConfig{Host: "smtp.campus.example", Port: 587, From: "noreply@campus.example"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, mailer)
}

func TestBuildMsg(t *testing.T) {
	email, err := buildMsg("noreply@campus.example", Message{To: "s@campus.edu", Subject: "Issue resolved", Body: "done"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = email.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Issue resolved")
	assert.Contains(t, buf.String(), "s@campus.edu")

	_, err = buildMsg("not an address", Message{To: "s@campus.edu"})
	assert.Error(t, err)
}

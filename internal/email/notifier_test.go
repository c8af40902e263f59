package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierVerificationCode(t *testing.T) {
	rec := &Recorder{}
	n := NewNotifier(rec, "mentorlink")

	err := n.SendVerificationCode(context.Background(), "a@x.edu", "123456", time.Now().Add(48*time.Hour), 48*time.Hour)
	require.NoError(t, err)

	msg, ok := rec.Last("a@x.edu")
	require.True(t, ok)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.Text, "123456")
	assert.Contains(t, msg.Text, "48 hours")
	assert.Contains(t, msg.HTML, "<strong>123456</strong>")
}

func TestNotifierEscapesHTML(t *testing.T) {
	rec := &Recorder{}
	n := NewNotifier(rec, "")
	require.NoError(t, n.MatchDeclined(context.Background(), "s@x.edu", "<b>Ana</b>", "Bob"))

	msg, _ := rec.Last("s@x.edu")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ana&lt;/b&gt;")
	assert.Contains(t, msg.Text, "<b>Ana</b>")
	assert.Contains(t, msg.Text, "mentorlink")
}

func TestNotifierPropagatesSendError(t *testing.T) {
	rec := &Recorder{Err: errors.New("smtp down")}
	n := NewNotifier(rec, "x")
	err := n.SendResetCode(context.Background(), "a@x.edu", "654321", time.Now(), 15*time.Minute)
	require.EqualError(t, err, "smtp down")
	assert.Len(t, rec.Messages(), 1)
}

func TestHumanTTL(t *testing.T) {
	assert.Equal(t, "48 hours", humanTTL(48*time.Hour))
	assert.Equal(t, "1 hour", humanTTL(time.Hour))
	assert.Equal(t, "15 minutes", humanTTL(15*time.Minute))
	assert.Equal(t, "1m30s", humanTTL(90*time.Second))
}

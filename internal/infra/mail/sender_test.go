package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-insights/internal/entity"
)

func samplePayload() entity.OutreachPayload {
	return entity.OutreachPayload{
		OutreachID: "o-1",
		LeadID:     "1",
		Channel:    "email",
		Recipient:  "john.smith@email.com",
		Name:       "John Smith",
		Course:     "Data Science Bootcamp",
		Price:      2499,
		Body:       "Hi John, I hope you're doing well!",
	}
}

func TestRenderOutreach(t *testing.T) {
	html, err := RenderOutreach(OutreachEmailData{
		Name:   "John Smith",
		Course: "Data Science Bootcamp",
		Body:   "Hi <John>",
		Price:  2499,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi &lt;John&gt;")
	assert.Contains(t, html, "$2499")
	assert.Contains(t, html, "Data Science Bootcamp")
}

func TestRenderOutreachWithoutPrice(t *testing.T) {
	html, err := RenderOutreach(OutreachEmailData{Course: "UX/UI Design", Body: "Hello"})
	require.NoError(t, err)
	assert.NotContains(t, html, "personalised price")
}

func TestBuildMessage(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "user", "pass", "admissions@example.com")

	m, err := s.BuildMessage(samplePayload())
	require.NoError(t, err)

	assert.Equal(t, []string{"admissions@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"About Data Science Bootcamp"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "john.smith@email.com")
}

func TestBuildMessageRequiresRecipient(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "", "", "a@example.com")
	p := samplePayload()
	p.Recipient = ""

	_, err := s.BuildMessage(p)
	assert.Error(t, err)
}

func TestDispatchHonoursCancelledContext(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "", "", "a@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Dispatch(ctx, samplePayload())
	assert.ErrorIs(t, err, context.Canceled)
}

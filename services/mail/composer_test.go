package mail

import (
	"strings"
	"testing"

	"astrodesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() models.Booking {
	return models.Booking{
		ID:    "b-1",
		Date:  "2025-06-01",
		Hour:  10,
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "+34 600 000 000",
	}
}

func TestBookingAdminNotice(t *testing.T) {
	c := NewComposer("Natal Chart Reading", "admin@example.com")

	msg, err := c.BookingAdminNotice(sampleBooking())
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", msg.To)
	assert.Equal(t, "New booking: 2025-06-01 at 10:00", msg.Subject)
	assert.Contains(t, msg.Text, "Natal Chart Reading")
	assert.Contains(t, msg.Text, "Phone: +34 600 000 000")
	assert.Contains(t, msg.Text, "Notes: none")
	assert.Contains(t, msg.HTML, "<strong>Notes:</strong> none")
}

func TestBookingAdminNoticeRequiresAdminAddress(t *testing.T) {
	c := NewComposer("Reading", "")
	_, err := c.BookingAdminNotice(sampleBooking())
	assert.Error(t, err)
}

func TestBookingClientConfirmation(t *testing.T) {
	c := NewComposer("", "admin@example.com")
	b := sampleBooking()
	b.Notes = "first visit"

	msg, err := c.BookingClientConfirmation(b)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Text, "Hello Ana")
	assert.Contains(t, msg.Text, `"none"`)
	assert.NotContains(t, msg.Text, "first visit")
}

func TestPurchaseConfirmation(t *testing.T) {
	c := NewComposer("Reading", "admin@example.com")
	o := models.Order{ID: "o-1", Name: "Ben", Email: "ben@example.com", ProductTitle: "Moon <Guide>", Amount: 9.5}

	t.Run("with link", func(t *testing.T) {
		msg, err := c.PurchaseConfirmation(o, "https://files.example.com/guide.pdf")
		require.NoError(t, err)
		assert.Equal(t, "ben@example.com", msg.To)
		assert.Equal(t, "Your purchase: Moon <Guide>", msg.Subject)
		assert.Contains(t, msg.Text, "(9.50)")
		assert.Contains(t, msg.Text, "Download link: https://files.example.com/guide.pdf")
		assert.Contains(t, msg.HTML, `<a href="https://files.example.com/guide.pdf">`)
		assert.Contains(t, msg.HTML, "Moon &lt;Guide&gt;")
	})

	t.Run("without link", func(t *testing.T) {
		msg, err := c.PurchaseConfirmation(o, "")
		require.NoError(t, err)
		assert.Contains(t, msg.Text, "Download link: none")
		assert.False(t, strings.Contains(msg.HTML, "<a href"))
	})
}

func TestSMTPSenderNotConfigured(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587})
	err := s.Send(t.Context(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPSenderDefaultsFromToUsername(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Username: "mailer@example.com"})
	assert.Equal(t, "mailer@example.com", s.cfg.From)
}

func TestSMTPSenderBuildAllSkipsBadRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "mailer@example.com"})
	out, err := s.buildAll([]Message{
		{To: "admin@example.com", Subject: "New booking", Text: "t", HTML: "<p>t</p>"},
		{To: "not an address", Subject: "Your booking", Text: "t", HTML: "<p>t</p>"},
	})
	require.Len(t, out, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid recipient "not an address"`)
}

func TestSMTPSenderNothingToSendDoesNotDial(t *testing.T) {
	// An unresolvable host would fail the dial; the only error expected is the build failure.
	s := NewSMTPSender(SMTPConfig{Host: "smtp.invalid", Port: 587, Username: "mailer@example.com"})
	err := s.Send(t.Context(), Message{To: "not an address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient")
	assert.NotContains(t, err.Error(), "failed to send")
}

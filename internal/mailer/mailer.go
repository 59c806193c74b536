// Package mailer sends transactional email through the Resend API.
// Waitlist confirmations are fire-and-forget: they run after the HTTP
// response is already decided and their failure is only ever logged.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/resend/resend-go/v2"

	"github.com/sidequest/sidequest-api/internal/config"
	"github.com/sidequest/sidequest-api/internal/logger"
)

// ErrNotConfigured is returned when no Resend API key is set.
var ErrNotConfigured = errors.New("email service not configured")

// WaitlistConfirmation carries the fields for a signup confirmation email.
type WaitlistConfirmation struct {
	Email        string
	Destination  *string
	ReferralCode string
}

// ContactInquiry carries a contact-form submission to forward.
type ContactInquiry struct {
	Name    string
	Email   string
	Message string
}

// Mailer is the outbound email collaborator used by the handlers.
type Mailer interface {
	SendWaitlistConfirmation(ctx context.Context, msg WaitlistConfirmation) error
	SendContactInquiry(ctx context.Context, msg ContactInquiry) error
}

// ResendMailer implements Mailer using the Resend API.
type ResendMailer struct {
	client    *resend.Client
	from      string
	contactTo string
	siteURL   string
	log       *charmlog.Logger
}

// New creates a ResendMailer from configuration. Without an API key the
// mailer stays in an unconfigured state and every send returns
// ErrNotConfigured.
func New(cfg *config.Config) *ResendMailer {
	m := &ResendMailer{
		from:      cfg.Email.FromEmail,
		contactTo: cfg.Email.ContactRecipient,
		siteURL:   cfg.Email.SiteURL,
		log:       logger.Mailer(),
	}

	if cfg.Email.ResendAPIKey != "" {
		m.client = resend.NewClient(cfg.Email.ResendAPIKey)
	} else {
		m.log.Warn("RESEND_API_KEY not set, outbound email disabled")
	}

	return m
}

// SendWaitlistConfirmation sends the signup confirmation with the
// entrant's referral link.
func (m *ResendMailer) SendWaitlistConfirmation(ctx context.Context, msg WaitlistConfirmation) error {
	if m.client == nil {
		return ErrNotConfigured
	}

	name := msg.Email
	if at := strings.Index(msg.Email, "@"); at > 0 {
		name = msg.Email[:at]
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.Email},
		Subject: "You're on the list - SideQuest",
		Html:    waitlistConfirmationHTML(name, msg.Destination, m.referralURL(msg.ReferralCode)),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send waitlist confirmation: %w", err)
	}

	m.log.Info("waitlist confirmation sent", "to", msg.Email, "email_id", sent.Id)
	return nil
}

// SendContactInquiry forwards a contact-form message to the site
// owners, with reply-to set to the sender.
func (m *ResendMailer) SendContactInquiry(ctx context.Context, msg ContactInquiry) error {
	if m.client == nil {
		return ErrNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.contactTo},
		Subject: fmt.Sprintf("SideQuest Inquiry from %s", strings.TrimSpace(msg.Name)),
		ReplyTo: strings.ToLower(strings.TrimSpace(msg.Email)),
		Html:    contactInquiryHTML(msg),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send contact inquiry: %w", err)
	}

	m.log.Info("contact inquiry forwarded", "from", msg.Email, "email_id", sent.Id)
	return nil
}

func (m *ResendMailer) referralURL(code string) string {
	return m.siteURL + "?ref=" + code
}

// Dispatch runs send on its own goroutine. Errors and panics are
// logged and swallowed so a mail failure can never reach the request
// that triggered it.
func Dispatch(name string, send func() error) {
	go func() {
		log := logger.Mailer()
		defer func() {
			if r := recover(); r != nil {
				log.Error("background email send panicked", "email", name, "panic", r)
			}
		}()

		if err := send(); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				log.Debug("background email skipped, mailer not configured", "email", name)
				return
			}
			log.Error("background email send failed", "email", name, "error", err)
		}
	}()
}

func waitlistConfirmationHTML(name string, destination *string, referralURL string) string {
	destinationLine := ""
	if destination != nil && *destination != "" {
		destinationLine = fmt.Sprintf(
			`<p style="margin:0 0 24px;color:#a1a1aa;font-size:15px;line-height:1.6;">We'll make sure <strong style="color:#f9f9f9;">%s</strong> is loaded with hidden gems before you get there.</p>`,
			html.EscapeString(*destination))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#0f0f0f;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="background-color:#0f0f0f;">
    <tr><td align="center" style="padding:40px 16px;">
      <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="max-width:520px;">
        <tr><td style="background-color:#1a1a1a;border-radius:20px;padding:40px 32px;border:1px solid #2a2a2a;">
          <h1 style="margin:0 0 8px;font-size:28px;font-weight:700;color:#f9f9f9;">You're in, %s!</h1>
          <p style="margin:0 0 24px;color:#a1a1aa;font-size:15px;line-height:1.6;">You've secured your spot for early access to SideQuest.</p>
          %s
          <p style="margin:0 0 8px;font-size:11px;font-weight:700;color:#f97316;text-transform:uppercase;">Your Referral Link</p>
          <div style="background:#111;border:1px solid #2a2a2a;border-radius:12px;padding:14px 16px;">
            <a href="%s" style="color:#fbbf24;font-size:14px;font-family:monospace;text-decoration:none;">%s</a>
          </div>
          <p style="margin:16px 0 0;color:#71717a;font-size:13px;">Share this with your travel crew. The more friends who join, the higher you move on the waitlist.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, html.EscapeString(name), destinationLine, referralURL, referralURL)
}

func contactInquiryHTML(msg ContactInquiry) string {
	name := html.EscapeString(strings.TrimSpace(msg.Name))
	email := html.EscapeString(strings.ToLower(strings.TrimSpace(msg.Email)))
	message := html.EscapeString(strings.TrimSpace(msg.Message))

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#0f0f0f;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="background-color:#0f0f0f;">
    <tr><td align="center" style="padding:40px 16px;">
      <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="max-width:520px;">
        <tr><td style="background-color:#1a1a1a;border-radius:20px;padding:32px;border:1px solid #2a2a2a;">
          <p style="margin:0 0 4px;font-size:11px;font-weight:700;color:#f97316;text-transform:uppercase;">From</p>
          <p style="margin:0 0 16px;color:#f9f9f9;font-size:16px;font-weight:600;">%s &lt;%s&gt;</p>
          <p style="margin:0 0 4px;font-size:11px;font-weight:700;color:#f97316;text-transform:uppercase;">Message</p>
          <p style="margin:0;color:#d4d4d8;font-size:15px;line-height:1.7;white-space:pre-wrap;">%s</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, name, email, message)
}

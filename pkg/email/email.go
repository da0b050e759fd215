package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"cvtheque-backend/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// DecisionEmailData holds the data for profile decision notifications
type DecisionEmailData struct {
	CandidateName string
	Validated     bool
	Summary       string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// decisionEmailTemplate is the HTML template for validate/reject notifications
const decisionEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Votre profil a été examiné</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1a3c6e; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .decision { font-size: 18px; font-weight: bold; margin-bottom: 15px; }
        .summary-box { background: white; padding: 15px; border-left: 4px solid #1a3c6e; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Votre profil a été examiné</h1>
        </div>
        <div class="content">
            <p>Bonjour {{.CandidateName}},</p>
            {{if .Validated}}
            <div class="decision">Votre profil a été validé. Il est désormais visible dans la CVthèque.</div>
            {{else}}
            <div class="decision">Votre profil n'a pas été retenu pour la CVthèque.</div>
            <div class="summary-box">{{.Summary}}</div>
            {{end}}
        </div>
        <div class="footer">
            <p>Cet email a été envoyé automatiquement, merci de ne pas y répondre.</p>
        </div>
    </div>
</body>
</html>`

// SendDecisionEmail notifies a candidate that their profile was validated or
// rejected. Callers invoke it fire-and-forget: a delivery failure must never
// fail the decision itself.
func (s *EmailService) SendDecisionEmail(to string, data DecisionEmailData) error {
	tmpl, err := template.New("decision").Parse(decisionEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Votre profil a été validé"
	if !data.Validated {
		subject = "Votre profil n'a pas été retenu"
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

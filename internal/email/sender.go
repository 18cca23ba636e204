// Package email sends the collector run summary over Gmail SMTP.
package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/mduse88/family-expenses/internal/config"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = "587"
)

// Sender sends run-summary mails using a Gmail app password.
type Sender struct {
	cfg config.Email
}

// RunSummary describes one completed collector run.
type RunSummary struct {
	Title           string
	FetchedAt       time.Time
	RecordsFetched  int
	DashboardRows   int
	PaymentsDropped int
	RowsDropped     int
}

func NewSender(cfg config.Email) *Sender {
	return &Sender{cfg: cfg}
}

// SendRunSummary mails the summary to the configured recipient.
func (s *Sender) SendRunSummary(summary RunSummary) error {
	if !s.cfg.IsConfigured() {
		return fmt.Errorf("email is not configured (set GMAIL_ADDRESS, GMAIL_APP_PASSWORD, RECIPIENT_EMAIL)")
	}

	e := email.NewEmail()
	e.From = s.cfg.GmailAddress
	e.To = []string{s.cfg.RecipientEmail}
	e.Subject = fmt.Sprintf("%s: data refreshed", summary.Title)

	body := fmt.Sprintf(
		"Expense data was refreshed at %s.\n\n"+
			"Records fetched: %d\n"+
			"Dashboard rows: %d\n"+
			"Payments excluded: %d\n"+
			"Rows dropped (unparseable): %d\n",
		summary.FetchedAt.Format("2006-01-02 15:04:05"),
		summary.RecordsFetched,
		summary.DashboardRows,
		summary.PaymentsDropped,
		summary.RowsDropped,
	)
	e.Text = []byte(body)

	addr := smtpHost + ":" + smtpPort
	auth := smtp.PlainAuth("", s.cfg.GmailAddress, s.cfg.GmailAppPassword, smtpHost)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send summary email: %w", err)
	}

	slog.Info("Run summary email sent", "to", s.cfg.RecipientEmail, "subject", e.Subject)
	return nil
}

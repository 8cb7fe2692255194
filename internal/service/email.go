package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridEmailService mails workflow notices to the logistics operations
// inbox. The ledger holds no operator email addresses; the identity provider
// does, so per-user mail stays outside this service.
type sendgridEmailService struct {
	apiKey   string
	from     string
	fromName string
	opsInbox string
}

func NewSendGridEmailService(apiKey, from, fromName, opsInbox string) EmailService {
	return &sendgridEmailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		opsInbox: opsInbox,
	}
}

func (s *sendgridEmailService) send(subject, body string) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("Logistics Operations", s.opsInbox)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendTransferNotice(ctx context.Context, subject, message string) error {
	return s.send(subject, message)
}

func (s *sendgridEmailService) SendOverdueReminder(ctx context.Context, subject, message string) error {
	return s.send(subject, message)
}

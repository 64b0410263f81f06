package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(apiKey, fromAddress string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("My Study Swaps", fromAddress),
	}
}

// withBaseURL points the client at another host; tests use it
func (s *SendGridSender) withBaseURL(url string) *SendGridSender {
	s.client.BaseURL = url
	return s
}

func (s *SendGridSender) SendChildCredentials(ctx context.Context, msg ChildCredentialsMessage) error {
	html, text, err := RenderChildCredentials(msg)
	if err != nil {
		return err
	}

	message := mail.NewSingleEmail(s.from, childCredentialsSubject, mail.NewEmail(msg.ParentName, msg.ParentEmail), text, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: provider returned status %d", ErrSendFailed, resp.StatusCode)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"hammercms/internal/email"
	"hammercms/internal/model"
)

var (
	ErrInvalidSubmission = errors.New("name, email and message are required")
	ErrSpamDetected      = errors.New("spam detected")
)

// ContactService relays public contact-form enquiries by email. Submissions
// are never persisted.
type ContactService interface {
	// Submit validates the enquiry and mails it to the site inbox. A filled
	// honeypot field marks the submission as a bot: it is rejected with
	// ErrSpamDetected and no mail is sent.
	Submit(ctx context.Context, sub model.ContactSubmission) error
}

type contactService struct {
	mailer email.Mailer
	to     string
}

// NewContactService constructs a new ContactService. to is the inbox that
// receives enquiries.
func NewContactService(mailer email.Mailer, to string) ContactService {
	return &contactService{mailer: mailer, to: to}
}

func (s *contactService) Submit(ctx context.Context, sub model.ContactSubmission) error {
	// Bots fill every field; real visitors never see this one.
	if strings.TrimSpace(sub.Honeypot) != "" {
		return ErrSpamDetected
	}
	if strings.TrimSpace(sub.Name) == "" ||
		strings.TrimSpace(sub.Email) == "" ||
		strings.TrimSpace(sub.Message) == "" {
		return ErrInvalidSubmission
	}

	topic := sub.Service
	if strings.TrimSpace(topic) == "" {
		topic = "General"
	}

	msg := email.Message{
		Subject: fmt.Sprintf("New enquiry: %s — %s", topic, sub.Name),
		To:      []string{s.to},
		ReplyTo: sub.Email,
		Text:    enquiryText(sub),
		HTML:    enquiryHTML(sub),
		Tags:    map[string]string{"source": "contact-form"},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send enquiry: %w", err)
	}
	return nil
}

func enquiryText(sub model.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	if sub.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", sub.Phone)
	}
	if sub.Service != "" {
		fmt.Fprintf(&b, "Service: %s\n", sub.Service)
	}
	fmt.Fprintf(&b, "\n%s\n", sub.Message)
	return b.String()
}

func enquiryHTML(sub model.ContactSubmission) string {
	var b strings.Builder
	b.WriteString("<h2>New website enquiry</h2><table>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", label, html.EscapeString(value))
	}
	row("Name", sub.Name)
	row("Email", sub.Email)
	row("Phone", sub.Phone)
	row("Service", sub.Service)
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(sub.Message))
	return b.String()
}

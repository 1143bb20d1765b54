package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-insights/internal/entity"
)

//go:embed templates/outreach.html
var templatesFS embed.FS

var outreachTmpl = template.Must(template.ParseFS(templatesFS, "templates/outreach.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Dispatch sends the outreach draft as an HTML email to the lead.
func (s *EmailSender) Dispatch(ctx context.Context, p entity.OutreachPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.BuildMessage(p)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp email: %w", err)
	}
	return nil
}

func (s *EmailSender) BuildMessage(p entity.OutreachPayload) (*gomail.Message, error) {
	if p.Recipient == "" {
		return nil, fmt.Errorf("email recipient is empty")
	}

	body, err := RenderOutreach(OutreachEmailData{
		Name:   p.Name,
		Course: p.Course,
		Body:   p.Body,
		Price:  p.Price,
	})
	if err != nil {
		return nil, err
	}

	subject := p.Subject
	if subject == "" {
		subject = fmt.Sprintf("About %s", p.Course)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", p.Recipient, p.Name)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", p.Body)
	m.AddAlternative("text/html", body)
	return m, nil
}

func RenderOutreach(data OutreachEmailData) (string, error) {
	var body bytes.Buffer
	if err := outreachTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render outreach template: %w", err)
	}
	return body.String(), nil
}

package mailer

import (
	"fmt"
	"strings"

	tpl "github.com/oksasatya/campus-connect/pkg/mailer/templates"
)

// EmailJob is the JSON message on the email queue. A job either names an
// embedded Template with its Data or carries a ready Subject/Text/HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func NewTemplateJob(to, template string, data map[string]any) EmailJob {
	return EmailJob{To: to, Template: template, Data: data}
}

// Message resolves the subject and bodies to send. Every error it returns
// wraps ErrUndeliverable.
func (j EmailJob) Message() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrUndeliverable)
	}
	subject, text, html = j.Subject, j.Text, j.HTML
	if j.Template != "" {
		subject, text, html, err = tpl.Render(j.Template, j.Data)
		if err != nil {
			return "", "", "", fmt.Errorf("%w: render %s: %v", ErrUndeliverable, j.Template, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return "", "", "", fmt.Errorf("%w: empty message", ErrUndeliverable)
	}
	return subject, text, html, nil
}

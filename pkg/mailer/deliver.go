package mailer

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-realworld/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job needs a template or a subject with text or html")

// Sender delivers one rendered message and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) (string, error)
}

// Content resolves the subject and bodies of the job, rendering its template
// when one is set.
func (j EmailJob) Content() (subject, text, html string, err error) {
	if j.Template != "" {
		subject, text, err = templates.Render(j.Template, j.Data)
		return subject, text, "", err
	}
	if j.Subject == "" || (j.Text == "" && j.HTML == "") {
		return "", "", "", ErrEmptyJob
	}
	return j.Subject, j.Text, j.HTML, nil
}

// Deliver renders job and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) (string, error) {
	subject, text, html, err := job.Content()
	if err != nil {
		return "", err
	}
	return s.Send(ctx, job.To, subject, text, html)
}

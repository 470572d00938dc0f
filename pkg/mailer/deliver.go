package mailer

import (
	"context"
	"errors"
	"strings"
)

// ErrUndeliverable marks jobs that will never succeed; the worker drops them
// instead of requeueing.
var ErrUndeliverable = errors.New("undeliverable email job")

// Sender is implemented by *Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver resolves job and hands it to s. Send failures are returned as is.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := job.Message()
	if err != nil {
		return err
	}
	return s.Send(ctx, strings.TrimSpace(job.To), subject, text, html)
}

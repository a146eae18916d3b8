package ports

import "context"

// MailJob is a single outbound message handed to the mail dispatcher.
type MailJob struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message. Implementations are expected to be
// synchronous; queueing happens in the dispatcher layer.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailEnqueuer accepts mail jobs for asynchronous delivery.
type MailEnqueuer interface {
	Enqueue(job MailJob)
}

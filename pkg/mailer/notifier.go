package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// QueueNotifier hands messages to the email worker through RabbitMQ.
type QueueNotifier struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueNotifier(pub *helpers.RabbitPublisher) *QueueNotifier {
	return &QueueNotifier{Pub: pub}
}

func (n *QueueNotifier) Notify(ctx context.Context, to, subject, body string) error {
	return n.Pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, Text: body})
}

// LogNotifier is used when MAIL_SEND_ENABLED=false. The body may carry a
// one-time code, so only the envelope is logged.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Notify(ctx context.Context, to, subject, body string) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sending disabled; notification dropped")
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
)

// logSender stands in for Mailgun when MAIL_SEND_ENABLED=false.
type logSender struct {
	logger *logrus.Logger
}

func (s logSender) Send(_ context.Context, to, subject, text, _ string) (string, error) {
	id := "dry-run-" + uuid.NewString()
	s.logger.WithFields(logrus.Fields{"to": to, "subject": subject, "id": id}).Info("email not sent (dry run)")
	s.logger.Debug(text)
	return id, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	var sender mailer.Sender = logSender{logger: logger}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Fatal("Mailgun not configured")
		}
		sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Warn("MAIL_SEND_ENABLED=false; emails are logged, not sent")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if _, err := helpers.DeclareQueue(ch, cfg.RabbitMQNotifyQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}

	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, sender, cfg.AppName, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks delivered mail, drops malformed jobs and requeues failed sends.
func handle(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, appName string, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	helpers.PrepareJob(&job, appName)

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	id, err := mailer.Deliver(c, sender, job)
	if err != nil {
		entry := logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template})
		if errors.Is(err, mailer.ErrEmptyJob) || job.To == "" {
			entry.Warn("dropping undeliverable job")
			_ = msg.Nack(false, false)
			return
		}
		entry.Warn("send failed; requeueing")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template, "id": id}).Info("email sent")
	_ = msg.Ack(false)
}

package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/metrics"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
)

// enqueue publishes job after the surrounding transaction committed. Failures
// are logged and never reach the caller.
func enqueue(ctx context.Context, p JobPublisher, logger *logrus.Logger, job mailer.EmailJob) {
	if p == nil || job.To == "" {
		return
	}
	if err := p.PublishJSON(ctx, job); err != nil {
		metrics.RecordSideEffectFailure("notify")
		helpers.LogWarn(logger, "enqueue notification failed", err, logrus.Fields{
			"template": job.Template,
			"to":       job.To,
		})
	}
}

package createregistrationticket

import (
	"context"
	"fmt"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/mail"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/models"
)

// FallbackNotifier emails the collected data when no ticket could be created.
type FallbackNotifier struct {
	sender     mail.Sender
	templateID int64
	locale     string
	recipient  string
	logger     logger.Logger
}

func NewFallbackNotifier(sender mail.Sender, templateID int64, locale, recipient string, log logger.Logger) *FallbackNotifier {
	return &FallbackNotifier{
		sender:     sender,
		templateID: templateID,
		locale:     locale,
		recipient:  recipient,
		logger:     log,
	}
}

// Notify is the last resort: failures are logged and reported as false, never returned.
func (n *FallbackNotifier) Notify(ctx context.Context, userBlock, customerBlock string) bool {
	notification := &models.Notification{
		TemplateID: n.templateID,
		Locale:     n.locale,
		Params:     []string{HTMLBreaks(userBlock), HTMLBreaks(customerBlock)},
		To:         n.recipient,
	}

	var err error
	if n.sender == nil {
		err = apperrors.NewNotificationSendFailedError("email", fmt.Errorf("no sender configured"))
	} else {
		err = n.sender.Send(ctx, notification)
	}
	if err != nil {
		n.logger.Error("Fallback notification failed", map[string]interface{}{
			"templateId": n.templateID,
			"recipient":  n.recipient,
			"errorCode":  string(apperrors.CodeOf(err)),
			"error":      err,
		})
		metrics.RegistrationFallbacks.WithLabelValues(metrics.OutcomeFailure).Inc()
		return false
	}

	n.logger.Info("Fallback notification sent", map[string]interface{}{
		"templateId": n.templateID,
		"recipient":  n.recipient,
	})
	metrics.RegistrationFallbacks.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return true
}

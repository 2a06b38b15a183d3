package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/service/invoice"
)

// systemActorID подставляется, когда провайдер не сообщил плательщика.
const systemActorID = "payment-gateway"

// NewPaymentNotificationHandler переводит подтверждения оплаты от внешнего
// провайдера в команды оплаты счёта. Повторное подтверждение уже оплаченного
// счёта не считается ошибкой.
func NewPaymentNotificationHandler(invoices invoice.Service, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.New().WithField("component", "payment-notifications")
	}

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		var notification PaymentNotification
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			return fmt.Errorf("decode payment notification: %w", err)
		}
		if notification.InvoiceID == "" {
			return errors.New("payment notification without invoice_id")
		}

		actor := auth.Actor{UserID: notification.PaidBy, Role: auth.RoleClient}
		if notification.PaidBy == "" {
			actor = auth.Actor{UserID: systemActorID, Role: auth.RoleAdmin}
		}

		_, err := invoices.Pay(ctx, actor, notification.InvoiceID)
		if errors.Is(err, domain.ErrInvoiceAlreadyPaid) {
			logger.WithField("invoice_id", notification.InvoiceID).
				Debug("payment notification for already paid invoice")
			return nil
		}
		if err != nil {
			return fmt.Errorf("pay invoice %s: %w", notification.InvoiceID, err)
		}

		logger.WithFields(log.Fields{
			"invoice_id": notification.InvoiceID,
			"provider":   notification.Provider,
		}).Info("invoice paid via payment notification")
		return nil
	}
}

package notifications

import (
	"context"

	"tourly/internal/refunds"
)

// RefundServiceAdapter implements the refunds.NotificationPublisher interface
// and adapts refund lifecycle events onto the notification pipeline
type RefundServiceAdapter struct {
	producer Producer
}

// NewRefundServiceAdapter creates a new adapter for refund notifications
func NewRefundServiceAdapter(producer Producer) *RefundServiceAdapter {
	return &RefundServiceAdapter{producer: producer}
}

// PublishRefundNotification implements the refunds.NotificationPublisher interface
func (a *RefundServiceAdapter) PublishRefundNotification(ctx context.Context, n refunds.RefundNotification) error {
	var notificationType NotificationType
	switch n.Type {
	case refunds.NotificationRefundRequested:
		notificationType = NotificationTypeRefundRequested
	case refunds.NotificationRefundApproved:
		notificationType = NotificationTypeRefundApproved
	case refunds.NotificationRefundRejected:
		notificationType = NotificationTypeRefundRejected
	case refunds.NotificationRefundCompleted:
		notificationType = NotificationTypeRefundCompleted
	case refunds.NotificationRefundCancelled:
		notificationType = NotificationTypeRefundCancelled
	default:
		notificationType = NotificationTypeRefundRequested
	}

	templateData := map[string]interface{}{
		"amount": n.Amount.StringFixed(0),
	}
	if n.Reason != "" {
		templateData["reason"] = n.Reason
	}

	notification := NewNotification(notificationType, n.CustomerID, n.RefundRequestID, n.BookingID, templateData)
	return a.producer.PublishNotification(ctx, notification)
}

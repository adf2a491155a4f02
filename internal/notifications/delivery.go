package notifications

import (
	"context"
	"fmt"

	"tourly/pkg/logger"
)

// Deliverer sends a notification to the customer over some channel (email,
// push, SMS). Implementations must be safe for concurrent use by the worker
// pool.
type Deliverer interface {
	Deliver(ctx context.Context, notification *Notification) error
}

// subjects per notification type
var notificationSubjects = map[NotificationType]string{
	NotificationTypeRefundRequested: "We received your refund request",
	NotificationTypeRefundApproved:  "Your refund request was approved",
	NotificationTypeRefundRejected:  "Your refund request was rejected",
	NotificationTypeRefundCompleted: "Your refund has been paid out",
	NotificationTypeRefundCancelled: "Your refund request was cancelled",
}

// LogDeliverer writes notifications to the structured log instead of an
// external channel. Used in development and as the fallback when no email
// provider is configured.
type LogDeliverer struct {
	log *logger.Logger
}

func NewLogDeliverer() *LogDeliverer {
	return &LogDeliverer{log: logger.GetDefault()}
}

// Deliver implements the Deliverer interface
func (d *LogDeliverer) Deliver(ctx context.Context, notification *Notification) error {
	subject, ok := notificationSubjects[notification.Type]
	if !ok {
		return fmt.Errorf("unknown notification type: %s", notification.Type)
	}

	d.log.Info("delivering notification",
		"subject", subject,
		"type", notification.Type,
		"customer_id", notification.CustomerID,
		"refund_request_id", notification.RefundRequestID,
		"booking_id", notification.BookingID,
	)
	return nil
}

package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus tracks a notification through the delivery pipeline
type NotificationStatus string

const (
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// NotificationType identifies which template the worker renders
type NotificationType string

const (
	NotificationTypeRefundRequested NotificationType = "REFUND_REQUESTED"
	NotificationTypeRefundApproved  NotificationType = "REFUND_APPROVED"
	NotificationTypeRefundRejected  NotificationType = "REFUND_REJECTED"
	NotificationTypeRefundCompleted NotificationType = "REFUND_COMPLETED"
	NotificationTypeRefundCancelled NotificationType = "REFUND_CANCELLED"
)

// Notification is the wire payload carried through Kafka to the delivery
// workers.
type Notification struct {
	ID         uuid.UUID        `json:"id"`
	Type       NotificationType `json:"type"`
	CustomerID uuid.UUID        `json:"customer_id"`

	RefundRequestID uuid.UUID `json:"refund_request_id"`
	BookingID       uuid.UUID `json:"booking_id"`

	// TemplateData holds rendered-in values like amounts and reasons.
	TemplateData map[string]interface{} `json:"template_data,omitempty"`

	Status    NotificationStatus `json:"status"`
	LastError *string            `json:"last_error,omitempty"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewNotification builds a queued notification for a refund lifecycle event
func NewNotification(notificationType NotificationType, customerID, refundRequestID, bookingID uuid.UUID,
	templateData map[string]interface{}) *Notification {
	now := time.Now().UTC()
	return &Notification{
		ID:              uuid.New(),
		Type:            notificationType,
		CustomerID:      customerID,
		RefundRequestID: refundRequestID,
		BookingID:       bookingID,
		TemplateData:    templateData,
		Status:          NotificationStatusQueued,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// GetPartitionKey keys messages so one customer's notifications stay ordered
func (n *Notification) GetPartitionKey() string {
	return n.CustomerID.String()
}

func (n *Notification) IsExpired() bool {
	return n.ExpiresAt != nil && time.Now().After(*n.ExpiresAt)
}

func (n *Notification) MarkSent() {
	n.Status = NotificationStatusSent
	n.UpdatedAt = time.Now().UTC()
}

func (n *Notification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	errorStr := err.Error()
	n.LastError = &errorStr
	n.UpdatedAt = time.Now().UTC()
}

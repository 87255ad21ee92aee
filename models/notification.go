package models

import (
	"time"
)

// Order lifecycle statuses as delivered by the backend.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// NextStatus returns the status an order advances to from the given
// one. Delivered and cancelled are terminal.
func NextStatus(status string) (string, bool) {
	switch status {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// NotificationRecord is one order notification as observed through
// polling. The id is the sole identity key used for diffing; the rest
// of the record is treated as an immutable snapshot that the backend
// replaces wholesale on the next poll.
type NotificationRecord struct {
	ID           string
	Status       string
	Title        string
	Body         string
	Read         bool
	CustomerName string
	OrderNumber  string
	Total        float64
	ItemCount    int
	CreatedAt    time.Time
}

func (n *NotificationRecord) UnmarshalJSON(data []byte) error {
	f, err := newRawFields(data)
	if err != nil {
		return err
	}
	n.ID = f.str("id")
	n.Status = f.str("status")
	n.Title = f.str("title")
	n.Body = f.str("body", "message")
	n.Read = f.boolean("is_read", "isRead", "read")
	n.CustomerName = f.str("customer_name", "customerName")
	n.OrderNumber = f.str("order_number", "orderNumber")
	n.Total = f.number("total", "total_amount", "totalAmount")
	n.ItemCount = int(f.number("item_count", "itemCount"))
	n.CreatedAt = f.instant("created_at", "createdAt")
	return nil
}

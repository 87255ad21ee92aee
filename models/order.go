package models

import (
	"time"
)

// Order is the read view of one order as returned by orders/list.
type Order struct {
	ID           string
	Status       string
	CustomerName string
	OrderNumber  string
	TotalAmount  float64
	ItemCount    int
	Notes        string
	TableName    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o *Order) UnmarshalJSON(data []byte) error {
	f, err := newRawFields(data)
	if err != nil {
		return err
	}
	o.ID = f.str("id")
	o.Status = f.str("status")
	o.CustomerName = f.str("customer_name", "customerName")
	o.OrderNumber = f.str("order_number", "orderNumber")
	o.TotalAmount = f.number("total_amount", "totalAmount", "total")
	o.ItemCount = int(f.number("item_count", "itemCount"))
	o.Notes = f.str("notes")
	o.TableName = f.str("table_name", "tableName")
	o.CreatedAt = f.instant("created_at", "createdAt")
	o.UpdatedAt = f.instant("updated_at", "updatedAt")
	return nil
}

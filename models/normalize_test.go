package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRecordSnakeCase(t *testing.T) {
	payload := []byte(`{
		"id": 42,
		"status": "pending",
		"title": "New order",
		"message": "Order placed",
		"is_read": false,
		"customer_name": "Layla",
		"order_number": "ORD-7",
		"total_amount": 120.5,
		"item_count": 3,
		"created_at": "2024-01-15 10:30:00"
	}`)

	var rec NotificationRecord
	require.NoError(t, json.Unmarshal(payload, &rec))

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, "Order placed", rec.Body)
	assert.False(t, rec.Read)
	assert.Equal(t, "Layla", rec.CustomerName)
	assert.Equal(t, "ORD-7", rec.OrderNumber)
	assert.InDelta(t, 120.5, rec.Total, 0.001)
	assert.Equal(t, 3, rec.ItemCount)
	assert.Equal(t, 2024, rec.CreatedAt.Year())
}

func TestNotificationRecordCamelCase(t *testing.T) {
	payload := []byte(`{
		"id": "A",
		"status": "confirmed",
		"isRead": true,
		"customerName": "Layla",
		"orderNumber": "ORD-7",
		"totalAmount": 120,
		"itemCount": 2,
		"createdAt": "2024-01-15T10:30:00Z"
	}`)

	var rec NotificationRecord
	require.NoError(t, json.Unmarshal(payload, &rec))

	assert.Equal(t, "A", rec.ID)
	assert.True(t, rec.Read)
	assert.Equal(t, "Layla", rec.CustomerName)
	assert.InDelta(t, 120, rec.Total, 0.001)
}

func TestNotificationRecordSnakeWinsWhenBothPresent(t *testing.T) {
	payload := []byte(`{"id":"A","customer_name":"Snake","customerName":"Camel"}`)

	var rec NotificationRecord
	require.NoError(t, json.Unmarshal(payload, &rec))
	assert.Equal(t, "Snake", rec.CustomerName)
}

func TestNotificationRecordNumericReadFlag(t *testing.T) {
	payload := []byte(`{"id":"A","is_read":1}`)

	var rec NotificationRecord
	require.NoError(t, json.Unmarshal(payload, &rec))
	assert.True(t, rec.Read)
}

func TestOrderDualNaming(t *testing.T) {
	snake := []byte(`{"id":1,"status":"ready","total_amount":50,"table_name":"T1","created_at":"2024-01-15 10:30:00"}`)
	camel := []byte(`{"id":1,"status":"ready","totalAmount":50,"tableName":"T1","createdAt":"2024-01-15T10:30:00"}`)

	var fromSnake, fromCamel Order
	require.NoError(t, json.Unmarshal(snake, &fromSnake))
	require.NoError(t, json.Unmarshal(camel, &fromCamel))

	assert.Equal(t, fromSnake, fromCamel)
}

func TestNextStatusProgression(t *testing.T) {
	chain := []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered}
	for i := 0; i < len(chain)-1; i++ {
		got, ok := NextStatus(chain[i])
		assert.True(t, ok, chain[i])
		assert.Equal(t, chain[i+1], got)
	}

	for _, terminal := range []string{StatusDelivered, StatusCancelled, "bogus"} {
		_, ok := NextStatus(terminal)
		assert.False(t, ok, terminal)
	}
}

func TestPollContextKey(t *testing.T) {
	branch := uint(3)

	assert.Equal(t, "r1", PollContext{RestaurantID: 1}.Key())
	assert.Equal(t, "r1/b3", PollContext{RestaurantID: 1, BranchID: &branch}.Key())
	assert.NotEqual(t,
		PollContext{RestaurantID: 1}.Key(),
		PollContext{RestaurantID: 1, BranchID: &branch}.Key())
}

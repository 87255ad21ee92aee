package tui

import (
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/services"
)

// GateMsg carries the subscription gate's latest evaluation.
type GateMsg struct {
	State    services.GateState
	Snapshot models.SubscriptionSnapshot
}

// ToastMsg carries the latest-slot value: a record on write, nil on
// clear.
type ToastMsg struct {
	Record *models.NotificationRecord
}

// SnapshotMsg carries the committed collection after a poll tick.
type SnapshotMsg struct {
	Context models.PollContext
	Records []models.NotificationRecord
}

// OrdersMsg carries a fetched order list for the orders view.
type OrdersMsg struct {
	Context models.PollContext
	Orders  []models.Order
}

// Hooks are the actions the UI hands back to the engine. They run on
// the UI goroutine and must not block.
type Hooks struct {
	DismissToast func()
	MarkAllRead  func()
	ToggleSound  func() bool
	ViewOrders   func()
	AdvanceOrder func(id, status string)
	Quit         func()
}

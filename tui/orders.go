package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// OrdersView is the order list reached through the toast's view
// action. It renders the most recent fetch and lets the operator
// advance the selected order to its next status.
type OrdersView struct {
	tbl    table.Model
	orders []models.Order
}

func NewOrdersView() OrdersView {
	columns := []table.Column{
		{Title: "Order", Width: 10},
		{Title: "Table", Width: 8},
		{Title: "Customer", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Total", Width: 14},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return OrdersView{tbl: tbl}
}

// SetOrders replaces the table contents with a fresh fetch.
func (v *OrdersView) SetOrders(orders []models.Order) {
	v.orders = orders
	rows := make([]table.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, table.Row{
			o.OrderNumber,
			o.TableName,
			o.CustomerName,
			o.Status,
			"Rp " + utils.FormatCurrency(o.TotalAmount),
		})
	}
	v.tbl.SetRows(rows)
}

func (v *OrdersView) setSize(width, height int) {
	v.tbl.SetWidth(width)
	if height > 2 {
		v.tbl.SetHeight(height)
	}
}

// Selected returns the order under the cursor.
func (v OrdersView) Selected() (models.Order, bool) {
	i := v.tbl.Cursor()
	if i < 0 || i >= len(v.orders) {
		return models.Order{}, false
	}
	return v.orders[i], true
}

func (v OrdersView) Update(msg tea.Msg) (OrdersView, tea.Cmd) {
	var cmd tea.Cmd
	v.tbl, cmd = v.tbl.Update(msg)
	return v, cmd
}

func (v OrdersView) View() string {
	if len(v.orders) == 0 {
		return statusBarStyle.Render("No orders in this view yet.")
	}
	hint := statusBarStyle.Render("[enter] advance status · [esc] back")
	return v.tbl.View() + "\n" + hint
}

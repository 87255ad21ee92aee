package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Dashboard is the protected subtree: the live order list fed by the
// poll loop. It is rebuilt from scratch whenever the gate re-admits
// the UI, so no stale state survives a blocked period.
type Dashboard struct {
	tbl     table.Model
	records []models.NotificationRecord
}

func NewDashboard() Dashboard {
	columns := []table.Column{
		{Title: "Order", Width: 10},
		{Title: "Customer", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Total", Width: 14},
		{Title: "Items", Width: 6},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return Dashboard{tbl: tbl}
}

func (d Dashboard) Init() tea.Cmd {
	return nil
}

// SetRecords replaces the table contents with the latest snapshot.
func (d *Dashboard) SetRecords(records []models.NotificationRecord) {
	d.records = records
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			rec.OrderNumber,
			rec.CustomerName,
			rec.Status,
			"Rp " + utils.FormatCurrency(rec.Total),
			fmt.Sprintf("%d", rec.ItemCount),
		})
	}
	d.tbl.SetRows(rows)
}

func (d *Dashboard) setSize(width, height int) {
	d.tbl.SetWidth(width)
	if height > 2 {
		d.tbl.SetHeight(height)
	}
}

func (d *Dashboard) focus() {
	d.tbl.Focus()
}

func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	var cmd tea.Cmd
	d.tbl, cmd = d.tbl.Update(msg)
	return d, cmd
}

func (d Dashboard) View() string {
	if len(d.records) == 0 {
		return statusBarStyle.Render("No orders yet — waiting for the next poll.")
	}
	return d.tbl.View()
}

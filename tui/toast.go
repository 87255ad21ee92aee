package tui

import (
	"fmt"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Toast renders the latest-slot value as a dismissible notice. The
// slot owns the value's lifetime; Toast only mirrors it and forwards
// dismissals.
type Toast struct {
	record *models.NotificationRecord
	width  int
}

// SetRecord mirrors the slot: a record shows the toast, nil hides it.
func (t *Toast) SetRecord(rec *models.NotificationRecord) {
	t.record = rec
}

// Visible reports whether a toast is on screen.
func (t Toast) Visible() bool {
	return t.record != nil
}

func (t *Toast) setWidth(w int) {
	t.width = w
}

func (t Toast) View() string {
	if t.record == nil {
		return ""
	}
	rec := t.record
	heading := rec.Title
	if heading == "" {
		heading = "New order"
	}
	line := rec.Body
	if line == "" {
		line = fmt.Sprintf("%s — order %s, Rp %s (%d items)",
			rec.CustomerName, rec.OrderNumber, utils.FormatCurrency(rec.Total), rec.ItemCount)
	}
	title := toastTitleStyle.Render(heading)
	hint := statusBarStyle.Render("[d] dismiss · [v] view orders")

	style := toastStyle
	if t.width > 4 {
		style = style.MaxWidth(t.width)
	}
	return style.Render(title + "\n" + line + "\n" + hint)
}

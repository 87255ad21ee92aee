package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/services"
)

// App is the root model. It wraps the protected dashboard in the
// subscription gate: while blocked, the dashboard is not mounted and
// the blocking notice fully replaces it.
type App struct {
	events <-chan tea.Msg
	hooks  Hooks

	width  int
	height int

	gateState    services.GateState
	subscription models.SubscriptionSnapshot
	gateSeen     bool

	dashboard  Dashboard
	mounted    bool
	ordersView OrdersView
	showOrders bool
	toast      Toast
	soundOn    bool
	branch     string
}

// NewApp builds the root model. events is the engine's message feed
// (gate evaluations, slot changes, committed snapshots).
func NewApp(events <-chan tea.Msg, hooks Hooks, soundOn bool, branch string) App {
	return App{
		events:    events,
		hooks:     hooks,
		gateState: services.GateBlocked,
		soundOn:   soundOn,
		branch:    branch,
	}
}

func (a App) Init() tea.Cmd {
	return a.waitForEvent()
}

// waitForEvent relays one engine message into the Bubble Tea runtime.
// Update re-arms it after every delivery.
func (a App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.toast.setWidth(msg.Width)
		if a.mounted {
			a.dashboard.setSize(msg.Width, msg.Height-4)
		}
		if a.showOrders {
			a.ordersView.setSize(msg.Width, msg.Height-4)
		}
		return a, nil

	case GateMsg:
		return a.updateGate(msg)

	case ToastMsg:
		a.toast.SetRecord(msg.Record)
		return a, a.waitForEvent()

	case SnapshotMsg:
		if a.mounted {
			a.dashboard.SetRecords(msg.Records)
		}
		return a, a.waitForEvent()

	case OrdersMsg:
		if a.mounted {
			if !a.showOrders {
				a.ordersView = NewOrdersView()
				a.ordersView.setSize(a.width, a.height-4)
				a.showOrders = true
			}
			a.ordersView.SetOrders(msg.Orders)
		}
		return a, a.waitForEvent()

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	if a.mounted {
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	}
	return a, nil
}

// updateGate mounts or unmounts the protected subtree. Re-entering
// Active rebuilds the dashboard from scratch; going Blocked drops it
// entirely so nothing protected can render or act.
func (a App) updateGate(msg GateMsg) (tea.Model, tea.Cmd) {
	previous := a.gateState
	a.gateState = msg.State
	a.subscription = msg.Snapshot
	a.gateSeen = true

	var cmd tea.Cmd
	switch {
	case msg.State == services.GateActive && (!a.mounted || previous == services.GateBlocked):
		a.dashboard = NewDashboard()
		a.dashboard.setSize(a.width, a.height-4)
		a.mounted = true
		cmd = a.dashboard.Init()
	case msg.State == services.GateBlocked:
		a.dashboard = Dashboard{}
		a.mounted = false
		a.ordersView = OrdersView{}
		a.showOrders = false
		a.toast.SetRecord(nil)
	}
	return a, tea.Batch(cmd, a.waitForEvent())
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if a.hooks.Quit != nil {
			a.hooks.Quit()
		}
		return a, tea.Quit

	case "s":
		if a.hooks.ToggleSound != nil {
			a.soundOn = a.hooks.ToggleSound()
		}
		return a, nil
	}

	if !a.mounted {
		// Blocked: no protected action is reachable.
		return a, nil
	}

	if a.showOrders {
		switch msg.String() {
		case "esc":
			a.ordersView = OrdersView{}
			a.showOrders = false
			a.dashboard.focus()
			return a, nil
		case "enter":
			if sel, ok := a.ordersView.Selected(); ok {
				if next, advancable := models.NextStatus(sel.Status); advancable && a.hooks.AdvanceOrder != nil {
					a.hooks.AdvanceOrder(sel.ID, next)
				}
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.ordersView, cmd = a.ordersView.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "d":
		if a.toast.Visible() {
			a.toast.SetRecord(nil)
			if a.hooks.DismissToast != nil {
				a.hooks.DismissToast()
			}
			return a, nil
		}
	case "v":
		if a.toast.Visible() {
			a.toast.SetRecord(nil)
			if a.hooks.DismissToast != nil {
				a.hooks.DismissToast()
			}
			if a.hooks.ViewOrders != nil {
				a.hooks.ViewOrders()
			}
			return a, nil
		}
	case "m":
		if a.hooks.MarkAllRead != nil {
			a.hooks.MarkAllRead()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.Update(msg)
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading…"
	}
	if a.gateState == services.GateBlocked {
		return a.blockedView()
	}

	header := headerStyle.Render("Restaurant Dashboard")
	sound := "sound on"
	if !a.soundOn {
		sound = "sound off"
	}
	branch := a.branch
	if branch == "" {
		branch = "all branches"
	}
	status := statusBarStyle.Render(fmt.Sprintf(
		"%s · %s · [m] mark read · [s] sound · [q] quit", branch, sound))

	body := a.dashboard.View()
	if a.showOrders {
		body = a.ordersView.View()
	}
	if a.toast.Visible() {
		body = a.toast.View() + "\n" + body
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// blockedView is the terminal render for an invalid subscription: it
// replaces the children, never overlays them.
func (a App) blockedView() string {
	title := blockedTitleStyle.Render("Subscription inactive")
	detail := "Your subscription has expired or could not be verified.\n" +
		"Renew it to regain access; this screen refreshes automatically."
	if !a.gateSeen {
		detail = "Verifying subscription…"
	}
	notice := blockedStyle.Render(title + "\n\n" + detail)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, notice)
}

package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yeremiapane/restaurant-dashboard/audio"
	"github.com/yeremiapane/restaurant-dashboard/client"
	"github.com/yeremiapane/restaurant-dashboard/config"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/notify"
	"github.com/yeremiapane/restaurant-dashboard/services"
	"github.com/yeremiapane/restaurant-dashboard/session"
	"github.com/yeremiapane/restaurant-dashboard/tui"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()

	store, err := session.Open(cfg.DBPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	sess, err := store.Current()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load session: %v", err)
	}
	if sess.AccessToken != "" && utils.TokenExpired(sess.AccessToken, time.Now()) {
		utils.InfoLogger.Print("Stored access token has expired; the backend will reject polls until the next login")
	}

	branchID := cfg.BranchID
	if branchID == nil {
		branchID = sess.SelectedBranch
	}
	pollCtx := models.PollContext{RestaurantID: cfg.RestaurantID, BranchID: branchID}

	api := client.New(cfg.APIBaseURL, sess.ClientID, func() string {
		current, err := store.Current()
		if err != nil {
			return ""
		}
		return current.AccessToken
	})

	// Engine → UI message feed. Buffered and sent non-blocking so a
	// torn-down UI cannot wedge the pollers.
	events := make(chan tea.Msg, 64)
	push := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			utils.ErrorLogger.Printf("UI event dropped: %T", msg)
		}
	}

	slot := services.NewLatestSlot()
	slot.OnChange(func(rec *models.NotificationRecord) {
		push(tui.ToastMsg{Record: rec})
	})

	soundEnabled := func() bool {
		current, err := store.Current()
		return err == nil && current.SoundEnabled
	}
	chime := audio.NewChime(cfg.ChimePath, soundEnabled)
	desktop := notify.NewDesktop("Restaurant Dashboard")

	dispatcher := services.NewDispatcher(desktop, chime, slot, cfg.ToastDuration)
	scheduler := services.NewPollScheduler(api.ListNotifications, cfg.NotificationInterval)

	// Every committed snapshot passes through the local read cache:
	// confirmed marks are pruned, unconfirmed ones keep the record
	// read in the UI until the backend catches up.
	onSnapshot := func(pc models.PollContext, records []models.NotificationRecord) {
		reconciled, err := store.ReconcileReadMarks(records)
		if err != nil {
			utils.ErrorLogger.Printf("Read-mark reconciliation failed: %v", err)
			reconciled = records
		}
		dispatcher.HandleSnapshot(pc, reconciled)
		push(tui.SnapshotMsg{Context: pc, Records: reconciled})
	}

	// The gate owns whether anything protected runs: going Active
	// resumes the notification poller, going Blocked halts it and
	// resets the baseline so re-admission starts clean.
	gate := services.NewSubscriptionGate(
		func(ctx context.Context) (models.SubscriptionSnapshot, error) {
			return api.CurrentSubscription(ctx, cfg.RestaurantID)
		},
		cfg.SubscriptionInterval,
		func(state services.GateState, snap models.SubscriptionSnapshot) {
			switch state {
			case services.GateActive:
				scheduler.Start(pollCtx, onSnapshot)
			case services.GateBlocked:
				scheduler.Stop(pollCtx)
				dispatcher.ResetContext(pollCtx)
				slot.Clear()
			}
			push(tui.GateMsg{State: state, Snapshot: snap})
		},
	)

	loadOrders := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		orders, err := api.ListOrders(ctx, pollCtx, "")
		if err != nil {
			utils.ErrorLogger.Printf("Loading orders failed: %v", err)
			return
		}
		push(tui.OrdersMsg{Context: pollCtx, Orders: orders})
	}

	hooks := tui.Hooks{
		DismissToast: slot.Clear,
		MarkAllRead: func() {
			for _, rec := range dispatcher.Snapshot(pollCtx) {
				if !rec.Read {
					if err := store.MarkReadLocal(rec.ID); err != nil {
						utils.ErrorLogger.Printf("Local read mark for %s failed: %v", rec.ID, err)
					}
				}
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := api.MarkRead(ctx, nil); err != nil {
					// Optimistic marks stay; the next poll reconciles.
					utils.ErrorLogger.Printf("Mark-all-read failed: %v", err)
				}
			}()
		},
		ViewOrders: func() { go loadOrders() },
		AdvanceOrder: func(id, status string) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := api.UpdateOrderStatus(ctx, id, status, ""); err != nil {
					utils.ErrorLogger.Printf("Advancing order %s to %s failed: %v", id, status, err)
					return
				}
				loadOrders()
			}()
		},
		ToggleSound: func() bool {
			current, err := store.Current()
			if err != nil {
				return true
			}
			next := !current.SoundEnabled
			if err := store.SetSoundEnabled(next); err != nil {
				utils.ErrorLogger.Printf("Persisting sound toggle failed: %v", err)
			}
			return next
		},
		Quit: func() {
			scheduler.StopAll()
			gate.Stop()
		},
	}

	branchLabel := ""
	if pollCtx.BranchID != nil {
		branchLabel = pollCtx.String()
	}

	app := tui.NewApp(events, hooks, soundEnabled(), branchLabel)
	program := tea.NewProgram(app, tea.WithAltScreen())

	gate.Start()
	defer gate.Stop()
	defer scheduler.StopAll()

	if _, err := program.Run(); err != nil {
		utils.ErrorLogger.Fatalf("Dashboard exited with error: %v", err)
	}
}

package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Notifier delivers user-facing notifications outside the dashboard
// window. The tag coalesces repeated sends about the same record.
type Notifier interface {
	Send(tag, title, body string) error
}

// Desktop sends notifications through the operating system. The first
// failed send disables further attempts for the rest of the session:
// one log line, then silent degradation, mirroring a denied
// permission prompt that must not be repeated.
type Desktop struct {
	mu       sync.Mutex
	disabled bool
	lastBody map[string]string
}

func NewDesktop(appName string) *Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{
		lastBody: make(map[string]string),
	}
}

// Send emits one OS notification. Sends repeating the previous body
// for the same tag are dropped so successive polls about an unchanged
// record do not stack.
func (d *Desktop) Send(tag, title, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disabled {
		return nil
	}
	if prev, ok := d.lastBody[tag]; ok && prev == body {
		return nil
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		d.disabled = true
		utils.ErrorLogger.Printf("Desktop notifications unavailable, disabling for this session: %v", err)
		return nil
	}
	d.lastBody[tag] = body
	return nil
}

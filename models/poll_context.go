package models

import "fmt"

// PollContext identifies the (restaurant, branch) scope a poller is
// bound to. At most one timer may run per context; switching branch
// means stopping the old context before starting the new one.
type PollContext struct {
	RestaurantID uint
	BranchID     *uint
}

// Key returns the canonical map key for this context.
func (c PollContext) Key() string {
	if c.BranchID != nil {
		return fmt.Sprintf("r%d/b%d", c.RestaurantID, *c.BranchID)
	}
	return fmt.Sprintf("r%d", c.RestaurantID)
}

func (c PollContext) String() string {
	return c.Key()
}

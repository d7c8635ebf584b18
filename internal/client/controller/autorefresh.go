package controller

import (
	"context"
	"errors"
	"time"
)

// StartAutoRefresh refreshes the list every interval until ctx is done.
// Ticks that land while another operation is outstanding are skipped.
func (c *Controller) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); errors.Is(err, ErrBusy) {
					c.log.Debug("auto refresh skipped, controller busy")
				}
			}
		}
	}()
}

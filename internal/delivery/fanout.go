package delivery

import (
	"context"
	"errors"

	"expirytracker/internal/reminder"
)

// Fanout hands a reminder to every deliverer in order. A failure does not stop
// the remaining deliverers; all errors are joined.
type Fanout []reminder.Deliverer

func (f Fanout) Deliver(ctx context.Context, n reminder.Notification) error {
	var errs []error
	for _, d := range f {
		if err := d.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

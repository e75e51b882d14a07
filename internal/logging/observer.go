package logging

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/quicktask-go/internal/store"
)

// EventFromChange converts a store change into a journal event stamped at now.
func EventFromChange(c store.Change, now time.Time) Event {
	return Event{
		Type:      string(c.Kind),
		Timestamp: now.UTC(),
		TaskID:    c.Task.ID,
		Title:     c.Task.Title,
		Completed: c.Task.Completed,
		Count:     c.Snapshot.Len(),
		Version:   c.Snapshot.Version(),
	}
}

// StoreObserver returns a store observer that writes every change to w.
// Write failures are reported on logger when it is non-nil; they never reach
// the store.
func StoreObserver(w Writer, logger *log.Logger) store.Observer {
	w = Locked(w)
	return func(c store.Change) {
		if err := w.Write(EventFromChange(c, time.Now())); err != nil && logger != nil {
			logger.Warn("journal write failed", "err", err, "kind", c.Kind, "task_id", c.Task.ID)
		}
	}
}

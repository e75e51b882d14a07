package store

import (
	"fmt"

	"github.com/nibzard/quicktask-go/internal/task"
)

// Snapshot is an immutable view of the collection at one point in time.
type Snapshot struct {
	tasks   []task.Task
	version uint64
}

// Version counts successful mutations since the store was created.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of tasks in the snapshot.
func (s Snapshot) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the tasks in insertion order.
func (s Snapshot) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// At returns the task at position i.
func (s Snapshot) At(i int) task.Task {
	return s.tasks[i]
}

// Get returns the task with the given id, or false if none.
func (s Snapshot) Get(id string) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s Snapshot) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// mustBeOpen panics when the store is nil or closed. Either means a caller
// outlived the store's owning scope.
func (s *Store) mustBeOpen(op string) {
	if s == nil {
		panic(fmt.Sprintf("store: %s called on a nil Store", op))
	}
	if s.closed.Load() {
		panic(fmt.Sprintf("store: %s called after Close", op))
	}
}

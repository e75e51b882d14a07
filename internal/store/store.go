// Package store holds the in-memory task collection and notifies observers.
package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/nibzard/quicktask-go/internal/task"
)

// Kind identifies the mutation that produced a snapshot.
type Kind string

const (
	KindAdd    Kind = "add"
	KindToggle Kind = "toggle"
	KindDelete Kind = "delete"
)

// Change is delivered to observers after every successful mutation.
type Change struct {
	Kind Kind
	// Task is the affected task after the mutation. For deletes it is the
	// task that was removed.
	Task     task.Task
	Snapshot Snapshot
}

// Observer receives changes synchronously, before the mutating call returns.
// Observers may subscribe and unsubscribe but must not mutate the store.
type Observer func(Change)

// Store owns the authoritative ordered task collection.
type Store struct {
	// mu serializes mutations and their notification.
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	closed   atomic.Bool
	watchers map[chan Snapshot]struct{}
	done     chan struct{}

	// obsMu guards the observer set and is never held while observers run.
	obsMu     sync.Mutex
	nextObsID int
	observers map[int]Observer
}

// New creates an empty store at snapshot version 0.
func New() *Store {
	s := &Store{
		observers: make(map[int]Observer),
		watchers:  make(map[chan Snapshot]struct{}),
		done:      make(chan struct{}),
	}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mustBeOpen("Snapshot")
	return *s.current.Load()
}

// Tasks returns a copy of the current collection in insertion order.
func (s *Store) Tasks() []task.Task {
	return s.Snapshot().Tasks()
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	return s.Snapshot().Get(id)
}

// Len returns the number of tasks held.
func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// AddTask appends t to the end of the collection. A task with an empty id or
// an id that is already present is not added. Returns true if the collection
// changed.
func (s *Store) AddTask(t task.Task) bool {
	s.mustBeOpen("AddTask")
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if t.IsZero() || cur.index(t.ID) >= 0 {
		return false
	}

	tasks := make([]task.Task, 0, len(cur.tasks)+1)
	tasks = append(tasks, cur.tasks...)
	tasks = append(tasks, t)
	s.publish(KindAdd, t, tasks)
	return true
}

// UpdateTask flips the completed flag of the task whose id matches t.ID.
// Every other field of t is ignored. Unknown ids are a no-op. Returns true if
// the collection changed.
func (s *Store) UpdateTask(t task.Task) bool {
	s.mustBeOpen("UpdateTask")
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	i := cur.index(t.ID)
	if i < 0 {
		return false
	}

	tasks := make([]task.Task, len(cur.tasks))
	copy(tasks, cur.tasks)
	tasks[i].Completed = !tasks[i].Completed
	s.publish(KindToggle, tasks[i], tasks)
	return true
}

// DeleteTask removes the task whose id matches t.ID. Unknown ids are a no-op.
// Returns true if the collection changed.
func (s *Store) DeleteTask(t task.Task) bool {
	s.mustBeOpen("DeleteTask")
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	i := cur.index(t.ID)
	if i < 0 {
		return false
	}

	removed := cur.tasks[i]
	tasks := make([]task.Task, 0, len(cur.tasks)-1)
	tasks = append(tasks, cur.tasks[:i]...)
	tasks = append(tasks, cur.tasks[i+1:]...)
	s.publish(KindDelete, removed, tasks)
	return true
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mustBeOpen("Subscribe")
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Watch returns a channel that receives the current snapshot immediately and
// every later one. A reader that falls behind only sees the latest snapshot.
// The channel closes when ctx is done or the store is closed.
func (s *Store) Watch(ctx context.Context) <-chan Snapshot {
	s.mustBeOpen("Watch")
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	ch <- *s.current.Load()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}()
	return ch
}

// Close ends the store's lifetime. Watch channels are closed, observers are
// dropped, and any later use of the store panics.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	for ch := range s.watchers {
		close(ch)
	}
	s.watchers = make(map[chan Snapshot]struct{})

	s.obsMu.Lock()
	s.observers = make(map[int]Observer)
	s.obsMu.Unlock()
}

// publish installs the next snapshot and notifies observers. Caller holds mu.
// Observers run from a copy of the set taken before the first call, so one
// that unsubscribes during delivery still sees this change.
func (s *Store) publish(kind Kind, affected task.Task, tasks []task.Task) {
	cur := s.current.Load()
	next := &Snapshot{tasks: tasks, version: cur.version + 1}
	s.current.Store(next)

	change := Change{Kind: kind, Task: affected, Snapshot: *next}
	for _, fn := range s.observerList() {
		fn(change)
	}
	for ch := range s.watchers {
		offerLatest(ch, *next)
	}
}

// offerLatest replaces any unread snapshot in ch with snap.
func offerLatest(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}

// observerList returns the observers in subscription order.
func (s *Store) observerList() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]Observer, len(ids))
	for i, id := range ids {
		fns[i] = s.observers[id]
	}
	return fns
}

package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arnavshah/shift-calendar-go/pkg/database"
	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
)

// Board holds one user's latest snapshots and drag session. Snapshots are
// replaced wholesale when the store publishes and are never mutated.
type Board struct {
	userID string
	store  *database.Store
	logger *slog.Logger

	mu        sync.RWMutex
	events    []models.Event
	employees []models.Employee
	version   uint64
	watchers  map[uint64]chan struct{}
	nextWatch uint64
	cancels   []func()

	dragMu  sync.Mutex
	session *scheduler.DragSession
}

func openBoard(ctx context.Context, userID string, store *database.Store, logger *slog.Logger) (*Board, error) {
	b := &Board{
		userID:   userID,
		store:    store,
		logger:   logger.With("user_id", userID),
		watchers: make(map[uint64]chan struct{}),
		session:  scheduler.NewDragSession(),
	}
	for _, collection := range []database.Collection{database.CollectionEvents, database.CollectionEmployees} {
		cancel, err := store.Subscribe(ctx, userID, collection, b.receive)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("subscribe %s: %w", collection, err)
		}
		b.cancels = append(b.cancels, cancel)
	}
	return b, nil
}

func (b *Board) receive(snap database.Snapshot) {
	b.mu.Lock()
	switch snap.Collection {
	case database.CollectionEvents:
		b.events = snap.Events
	case database.CollectionEmployees:
		b.employees = snap.Employees
	}
	b.version++
	// sends never block so they are safe under the lock that guards close
	for _, ch := range b.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *Board) close() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = nil
	for id, ch := range b.watchers {
		close(ch)
		delete(b.watchers, id)
	}
	b.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// UserID returns the owner of the board
func (b *Board) UserID() string {
	return b.userID
}

// Events returns the latest events snapshot
func (b *Board) Events() []models.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.events
}

// Employees returns the latest employees snapshot
func (b *Board) Employees() []models.Employee {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.employees
}

// Version increases every time a snapshot arrives
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Watch returns a channel signalled after each snapshot. The channel is
// closed when the board is dropped or the returned func is called.
func (b *Board) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.nextWatch++
	id := b.nextWatch
	b.watchers[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.watchers[id]; ok {
			close(ch)
			delete(b.watchers, id)
		}
	}
}

// WithSession runs fn while holding the board's drag session
func (b *Board) WithSession(fn func(*scheduler.DragSession)) {
	b.dragMu.Lock()
	defer b.dragMu.Unlock()
	fn(b.session)
}

// Apply hands an intent to the store. The returned event is the stored
// result; for deletes it is the zero value.
func (b *Board) Apply(ctx context.Context, intent scheduler.Intent) (models.Event, error) {
	var (
		event models.Event
		err   error
	)
	switch intent.Kind {
	case scheduler.IntentCreate, scheduler.IntentCreateWithAssignment:
		event, err = b.store.CreateEvent(ctx, b.userID, intent.Event)
	case scheduler.IntentMove:
		event, err = b.store.UpdateEvent(ctx, b.userID, intent.EventID, database.MovePatch(intent.Event.Start, intent.Event.End))
	case scheduler.IntentAssign:
		if !intent.Event.IsAssigned() {
			return models.Event{}, fmt.Errorf("assign intent for %s carries no employee", intent.EventID)
		}
		event, err = b.store.UpdateEvent(ctx, b.userID, intent.EventID, database.AssignPatch(*intent.Event.AssignedTo))
	case scheduler.IntentUpdate:
		event, err = b.store.UpdateEvent(ctx, b.userID, intent.EventID, database.ReplacePatch(intent.Event))
	case scheduler.IntentDelete:
		err = b.store.DeleteEvent(ctx, b.userID, intent.EventID)
	default:
		return models.Event{}, fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
	if err != nil {
		b.logger.WarnContext(ctx, "intent failed", "kind", intent.Kind, "event_id", intent.EventID, "error", err)
		return models.Event{}, err
	}
	b.logger.DebugContext(ctx, "intent applied", "kind", intent.Kind, "event_id", event.ID)
	return event, nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an id does not exist in the owner's collection
var ErrNotFound = errors.New("database: record not found")

// Collection names a per-owner set of documents
type Collection string

const (
	CollectionEvents    Collection = "events"
	CollectionEmployees Collection = "employees"
)

// Snapshot is the full state of one owner's collection at a point in time.
// Only the slice matching Collection is populated.
type Snapshot struct {
	Owner      string
	Collection Collection
	Events     []models.Event
	Employees  []models.Employee
}

type subKey struct {
	owner      string
	collection Collection
}

// Store is the document store. Writes are published synchronously to
// subscribers of the affected collection once they commit.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	nextID uint64
	subs   map[subKey]map[uint64]func(Snapshot)
	// held while a key's snapshot is loaded and delivered, so deliveries
	// for one key never reorder
	pubMu map[subKey]*sync.Mutex
}

// NewStore wraps an opened database
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
		subs:   make(map[subKey]map[uint64]func(Snapshot)),
		pubMu:  make(map[subKey]*sync.Mutex),
	}
}

// DB exposes the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Subscribe delivers the current snapshot of owner's collection to fn, then
// a fresh snapshot after every write to it. The returned func cancels.
// fn must not write to the collection it watches.
func (s *Store) Subscribe(ctx context.Context, owner string, collection Collection, fn func(Snapshot)) (func(), error) {
	key := subKey{owner: owner, collection: collection}
	pub := s.publishLock(key)
	pub.Lock()
	defer pub.Unlock()

	snap, err := s.snapshot(ctx, owner, collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.subs[key] == nil {
		s.subs[key] = make(map[uint64]func(Snapshot))
	}
	s.subs[key][id] = fn
	s.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[key], id)
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
		})
	}, nil
}

// ListEvents returns the owner's events ordered by start
func (s *Store) ListEvents(ctx context.Context, owner string) ([]models.Event, error) {
	var records []EventRecord
	if err := s.db.WithContext(ctx).Where("owner_id = ?", owner).Order("start_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	now := s.now()
	events := make([]models.Event, 0, len(records))
	for _, rec := range records {
		e, substituted := rec.toEvent(now)
		if substituted {
			s.logger.WarnContext(ctx, "event has missing time, using current instant", "owner", owner, "event_id", rec.ID)
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// ListEmployees returns the owner's employees ordered by name
func (s *Store) ListEmployees(ctx context.Context, owner string) ([]models.Employee, error) {
	var records []EmployeeRecord
	if err := s.db.WithContext(ctx).Where("owner_id = ?", owner).Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	employees := make([]models.Employee, 0, len(records))
	for _, rec := range records {
		employees = append(employees, rec.toEmployee())
	}
	return employees, nil
}

// GetEvent loads a single event
func (s *Store) GetEvent(ctx context.Context, owner, id string) (models.Event, error) {
	var rec EventRecord
	if err := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).First(&rec).Error; err != nil {
		return models.Event{}, notFound("event", id, err)
	}
	e, _ := rec.toEvent(s.now())
	return e, nil
}

// CreateEvent stores a new event and returns it with its assigned id
func (s *Store) CreateEvent(ctx context.Context, owner string, e models.Event) (models.Event, error) {
	e.ID = uuid.NewString()
	rec := eventRecordFrom(owner, e)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.logger.DebugContext(ctx, "event created", "owner", owner, "event_id", e.ID)
	s.publish(ctx, owner, CollectionEvents)
	created, _ := rec.toEvent(s.now())
	return created, nil
}

// EventPatch edits an event in place before it is saved
type EventPatch func(*models.Event)

// MovePatch reschedules an event
func MovePatch(start, end time.Time) EventPatch {
	return func(e *models.Event) {
		e.Start = start
		e.End = end
	}
}

// AssignPatch binds an employee to an event
func AssignPatch(employeeID string) EventPatch {
	return func(e *models.Event) {
		id := employeeID
		e.AssignedTo = &id
	}
}

// ReplacePatch overwrites every field of the stored event except its id
func ReplacePatch(next models.Event) EventPatch {
	return func(e *models.Event) {
		id := e.ID
		*e = next
		e.ID = id
	}
}

// UpdateEvent applies patch to the stored event
func (s *Store) UpdateEvent(ctx context.Context, owner, id string, patch EventPatch) (models.Event, error) {
	var updated models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec EventRecord
		if err := tx.Where("owner_id = ? AND id = ?", owner, id).First(&rec).Error; err != nil {
			return notFound("event", id, err)
		}
		e, _ := rec.toEvent(s.now())
		patch(&e)
		next := eventRecordFrom(owner, e)
		next.CreatedAt = rec.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		updated, _ = next.toEvent(s.now())
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	s.publish(ctx, owner, CollectionEvents)
	return updated, nil
}

// DeleteEvent removes an event
func (s *Store) DeleteEvent(ctx context.Context, owner, id string) error {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).Delete(&EventRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	s.publish(ctx, owner, CollectionEvents)
	return nil
}

// CreateEmployee stores a new employee and returns it with its assigned id
func (s *Store) CreateEmployee(ctx context.Context, owner string, e models.Employee) (models.Employee, error) {
	e.ID = uuid.NewString()
	rec := employeeRecordFrom(owner, e)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.publish(ctx, owner, CollectionEmployees)
	return rec.toEmployee(), nil
}

// UpdateEmployee replaces the stored employee's fields
func (s *Store) UpdateEmployee(ctx context.Context, owner, id string, e models.Employee) (models.Employee, error) {
	var updated models.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec EmployeeRecord
		if err := tx.Where("owner_id = ? AND id = ?", owner, id).First(&rec).Error; err != nil {
			return notFound("employee", id, err)
		}
		e.ID = id
		next := employeeRecordFrom(owner, e)
		next.CreatedAt = rec.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("update employee: %w", err)
		}
		updated = next.toEmployee()
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}
	s.publish(ctx, owner, CollectionEmployees)
	return updated, nil
}

// DeleteEmployee removes an employee. Events assigned to it keep the stale id.
func (s *Store) DeleteEmployee(ctx context.Context, owner, id string) error {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).Delete(&EmployeeRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("employee %s: %w", id, ErrNotFound)
	}
	s.publish(ctx, owner, CollectionEmployees)
	return nil
}

// Resync republishes every subscribed collection. It picks up writes made
// directly to the database by other instances.
func (s *Store) Resync(ctx context.Context) {
	s.mu.Lock()
	keys := make([]subKey, 0, len(s.subs))
	for key := range s.subs {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.publish(ctx, key.owner, key.collection)
	}
}

// StartResync runs Resync on a cron schedule until the returned stop func is called
func (s *Store) StartResync(schedule string) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		s.Resync(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("invalid resync schedule %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info("snapshot resync scheduled", "schedule", schedule)
	return func() {
		<-c.Stop().Done()
	}, nil
}

func (s *Store) snapshot(ctx context.Context, owner string, collection Collection) (Snapshot, error) {
	snap := Snapshot{Owner: owner, Collection: collection}
	var err error
	switch collection {
	case CollectionEvents:
		snap.Events, err = s.ListEvents(ctx, owner)
	case CollectionEmployees:
		snap.Employees, err = s.ListEmployees(ctx, owner)
	default:
		err = fmt.Errorf("unknown collection %q", collection)
	}
	return snap, err
}

func (s *Store) publishLock(key subKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pubMu[key]
	if !ok {
		m = &sync.Mutex{}
		s.pubMu[key] = m
	}
	return m
}

// publish loads and delivers under the key's publish lock. Each load starts
// after the triggering write committed, so the last delivery is never older
// than the last commit.
func (s *Store) publish(ctx context.Context, owner string, collection Collection) {
	key := subKey{owner: owner, collection: collection}
	pub := s.publishLock(key)
	pub.Lock()
	defer pub.Unlock()

	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs[key]))
	ids := make([]uint64, 0, len(s.subs[key]))
	for id := range s.subs[key] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fns = append(fns, s.subs[key][id])
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap, err := s.snapshot(ctx, owner, collection)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load snapshot", "owner", owner, "collection", collection, "error", err)
		return
	}
	for _, fn := range fns {
		fn(snap)
	}
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %s: %w", kind, id, err)
}

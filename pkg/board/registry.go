package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/arnavshah/shift-calendar-go/pkg/database"
)

// Registry keeps one board per signed-in user
type Registry struct {
	store  *database.Store
	logger *slog.Logger

	mu     sync.Mutex
	boards map[string]*Board
}

// NewRegistry creates an empty registry over store
func NewRegistry(store *database.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  store,
		logger: logger,
		boards: make(map[string]*Board),
	}
}

// Get returns the user's board, opening it on first use
func (r *Registry) Get(ctx context.Context, userID string) (*Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.boards[userID]; ok {
		return b, nil
	}
	b, err := openBoard(ctx, userID, r.store, r.logger)
	if err != nil {
		return nil, err
	}
	r.boards[userID] = b
	r.logger.InfoContext(ctx, "board opened", "user_id", userID)
	return b, nil
}

// Drop closes the user's subscriptions and discards their drag session
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	b, ok := r.boards[userID]
	delete(r.boards, userID)
	r.mu.Unlock()
	if !ok {
		return
	}
	b.close()
	r.logger.Info("board dropped", "user_id", userID)
}

// Len returns the number of open boards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// HandleAuthChange drops the board when a user signs out. It matches the
// identity provider's change listener signature.
func (r *Registry) HandleAuthChange(userID string, signedIn bool) {
	if !signedIn {
		r.Drop(userID)
	}
}

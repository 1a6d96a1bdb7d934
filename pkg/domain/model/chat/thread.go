package chat

import (
	"sync"

	"github.com/m-mizutani/gollem"
	"github.com/the-ledger/ledger/pkg/domain/types"
)

// Thread holds the conversation history of one logical session. The
// history lives in memory only and is replaced wholesale after each turn.
// Turns on the same thread are serialized; concurrent callers that want
// interleaved conversations must use distinct thread IDs.
type Thread struct {
	id      types.ThreadID
	mu      sync.Mutex
	history *gollem.History
}

func (x *Thread) ID() types.ThreadID {
	return x.id
}

// Do runs one conversation turn. fn receives the current history (nil for
// a fresh thread) and returns the history that replaces it. The stored
// history is left untouched when fn fails.
func (x *Thread) Do(fn func(history *gollem.History) (*gollem.History, error)) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	next, err := fn(x.history)
	if err != nil {
		return err
	}
	x.history = next
	return nil
}

// History returns the current history snapshot. Intended for tests.
func (x *Thread) History() *gollem.History {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.history
}

// Store keeps conversation threads keyed by thread ID.
type Store struct {
	mu      sync.Mutex
	threads map[types.ThreadID]*Thread
}

func NewStore() *Store {
	return &Store{
		threads: make(map[types.ThreadID]*Thread),
	}
}

// Thread returns the thread for the given ID, creating it on first use.
func (x *Store) Thread(id types.ThreadID) *Thread {
	x.mu.Lock()
	defer x.mu.Unlock()

	if t, ok := x.threads[id]; ok {
		return t
	}
	t := &Thread{id: id}
	x.threads[id] = t
	return t
}

// Len returns the number of known threads.
func (x *Store) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.threads)
}

package testutil

import (
	"sync"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
)

// RecordingSender records queued messages per connection instead of
// writing them to a socket.
type RecordingSender struct {
	mu     sync.Mutex
	sent   map[model.ConnectionID][]protocol.Message
	failed map[model.ConnectionID]error
}

// NewRecordingSender creates an empty RecordingSender
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{
		sent:   make(map[model.ConnectionID][]protocol.Message),
		failed: make(map[model.ConnectionID]error),
	}
}

// Send records the message, or returns the error set with FailFor
func (r *RecordingSender) Send(conn model.ConnectionID, msg protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failed[conn]; ok {
		return err
	}
	r.sent[conn] = append(r.sent[conn], msg)
	return nil
}

// FailFor makes every send to conn return err
func (r *RecordingSender) FailFor(conn model.ConnectionID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[conn] = err
}

// Messages returns the messages queued for conn so far
func (r *RecordingSender) Messages(conn model.ConnectionID) []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.sent[conn]...)
}

// Drain returns and forgets the messages queued for conn
func (r *RecordingSender) Drain(conn model.ConnectionID) []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.sent[conn]
	delete(r.sent, conn)
	return msgs
}

// Reset forgets every recorded message
func (r *RecordingSender) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = make(map[model.ConnectionID][]protocol.Message)
}

package events

import (
	"sync"

	"backoffice/internal/models"
)

// PendingQueue is the ordered ledger of push events received since the last
// dashboard re-fetch. It never feeds totals; the REST fetch does.
type PendingQueue struct {
	mu      sync.Mutex
	entries []models.PendingEvent
	seq     uint64
}

func NewPendingQueue() *PendingQueue {
	return &PendingQueue{}
}

// Push appends an event and returns its sequence number.
func (q *PendingQueue) Push(ev models.PushEvent) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.entries = append(q.entries, models.PendingEvent{Seq: q.seq, Event: ev})
	return q.seq
}

// Display returns the entries newest first.
func (q *PendingQueue) Display() []models.PendingEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.PendingEvent, len(q.entries))
	for i, entry := range q.entries {
		out[len(q.entries)-1-i] = entry
	}
	return out
}

// Arrival returns the entries in arrival order.
func (q *PendingQueue) Arrival() []models.PendingEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]models.PendingEvent(nil), q.entries...)
}

func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// NewOrderCount is the badge count of new-order entries.
func (q *PendingQueue) NewOrderCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, entry := range q.entries {
		if entry.Event.Kind == models.PushEventNewOrder {
			count++
		}
	}
	return count
}

// LastSeq is the sequence number of the newest entry ever pushed.
func (q *PendingQueue) LastSeq() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seq
}

// ClearThrough drops entries up to and including seq. Entries that arrived
// later stay queued.
func (q *PendingQueue) ClearThrough(seq uint64) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := 0
	for i < len(q.entries) && q.entries[i].Seq <= seq {
		i++
	}
	q.entries = append([]models.PendingEvent(nil), q.entries[i:]...)
	return i
}

func (q *PendingQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}

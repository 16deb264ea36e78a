package sim

import "container/heap"

// scheduledEvent pairs an event with the sequence number it was scheduled
// under. The sequence number breaks timestamp ties deterministically.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue is a priority queue of pending events.
// Ordering: timestamp → scheduling order.
// Sequence numbers are owned by the queue, so independent simulations never
// share ordering state.
type EventQueue struct {
	events  []scheduledEvent
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make([]scheduledEvent, 0)}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Less implements heap.Interface with deterministic ordering
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]
	if ei.ev.Timestamp() != ej.ev.Timestamp() {
		return ei.ev.Timestamp() < ej.ev.Timestamp()
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface
func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(scheduledEvent))
}

// Pop implements heap.Interface
func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue.
func (q *EventQueue) Schedule(ev Event) {
	heap.Push(q, scheduledEvent{ev: ev, seq: q.nextSeq})
	q.nextSeq++
}

// PopNext removes and returns the earliest event, or nil when empty.
func (q *EventQueue) PopNext() Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(scheduledEvent).ev
}

// Peek returns the earliest event without removing it, or nil when empty.
func (q *EventQueue) Peek() Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[0].ev
}

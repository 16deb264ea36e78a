// Implements the WaitQueue, which holds clients waiting for a free checkout.
// Clients are enqueued on arrival when every server is busy.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue represents a FIFO queue of client IDs waiting for a server.
type WaitQueue struct {
	queue []int
}

// Enqueue adds a client to the back of the wait queue.
func (wq *WaitQueue) Enqueue(id int) {
	wq.queue = append(wq.queue, id)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range wq.queue {
		sb.WriteString(fmt.Sprint(id))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of waiting clients.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the client at the front of the queue without removing it.
func (wq *WaitQueue) Peek() (int, bool) {
	if len(wq.queue) == 0 {
		return 0, false
	}
	return wq.queue[0], true
}

// Items returns a copy of the queue contents, front first.
func (wq *WaitQueue) Items() []int {
	out := make([]int, len(wq.queue))
	copy(out, wq.queue)
	return out
}

// Dequeue removes and returns the client at the front of the queue.
func (wq *WaitQueue) Dequeue() (int, bool) {
	if len(wq.queue) == 0 {
		return 0, false
	}
	id := wq.queue[0]
	wq.queue = wq.queue[1:]
	return id, true
}

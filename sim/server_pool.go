package sim

import "fmt"

// ServerPool is a counting resource of identical checkout servers with a
// FIFO queue of waiting clients. It knows nothing about time: the simulator
// decides when Acquire and Release are called.
//
// Invariants: 0 <= Busy() <= Capacity(); Waiting() > 0 only when every server
// is busy; servers are handed to waiters strictly in the order they queued.
type ServerPool struct {
	capacity int
	busy     int
	waiting  *WaitQueue
}

// NewServerPool creates a pool with the given number of servers.
// Panics if capacity < 1.
func NewServerPool(capacity int) *ServerPool {
	if capacity < 1 {
		panic(fmt.Sprintf("NewServerPool: capacity must be >= 1, got %d", capacity))
	}
	return &ServerPool{capacity: capacity, waiting: &WaitQueue{}}
}

// Acquire requests a server for client id. It returns true when a server was
// granted immediately; otherwise the client joins the back of the wait queue.
func (p *ServerPool) Acquire(id int) bool {
	if p.busy < p.capacity {
		p.busy++
		return true
	}
	p.waiting.Enqueue(id)
	return false
}

// Release returns a server to the pool. If clients are waiting, the server
// passes directly to the front waiter, whose ID is returned with ok=true.
// Panics if no server is busy.
func (p *ServerPool) Release() (next int, ok bool) {
	if p.busy == 0 {
		panic("ServerPool.Release: no busy server to release")
	}
	if next, ok = p.waiting.Dequeue(); ok {
		return next, true
	}
	p.busy--
	return 0, false
}

// Capacity returns the number of servers.
func (p *ServerPool) Capacity() int { return p.capacity }

// Busy returns the number of occupied servers.
func (p *ServerPool) Busy() int { return p.busy }

// Idle returns the number of free servers.
func (p *ServerPool) Idle() int { return p.capacity - p.busy }

// Waiting returns the number of clients queued for a server.
func (p *ServerPool) Waiting() int { return p.waiting.Len() }

// Waiters returns the queued client IDs, front first.
func (p *ServerPool) Waiters() []int { return p.waiting.Items() }

func (p *ServerPool) String() string {
	return fmt.Sprintf("busy=%d/%d waiting=%s", p.busy, p.capacity, p.waiting)
}

package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated hours) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// ArrivalEvent represents a client reaching the checkout line.
type ArrivalEvent struct {
	time   float64
	Client *Client
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute records the arrival, schedules the next arrival, and requests a server.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	c := e.Client
	c.Arrive(e.time)
	queued := sim.Pool.Waiting()
	logrus.Debugf("<< Arrival: client %d at %.4fh (queue=%d)", c.ID, e.time, queued)
	sim.log.append(EventRecord{Time: e.time, ClientID: c.ID, Kind: Arrival, QueueLength: queued})

	// Arrivals are sequential: the next client is only scheduled once this one is in.
	sim.scheduleNextArrival(e.time)

	if sim.Pool.Acquire(c.ID) {
		sim.startService(c, e.time)
		return
	}
	c.Wait()
}

// DepartureEvent represents a client finishing service and leaving.
type DepartureEvent struct {
	time   float64
	Client *Client
}

// Timestamp returns the scheduled time of the DepartureEvent.
func (e *DepartureEvent) Timestamp() float64 {
	return e.time
}

// Execute records the exit and hands the freed server to the next waiter.
func (e *DepartureEvent) Execute(sim *Simulator) {
	c := e.Client
	c.Depart(e.time)
	logrus.Debugf(">> Exit: client %d at %.4fh (sojourn=%.4fh)", c.ID, e.time, c.SojournTime())
	sim.log.append(EventRecord{Time: e.time, ClientID: c.ID, Kind: Exit})

	if next, ok := sim.Pool.Release(); ok {
		sim.startService(sim.client(next), e.time)
	}
}

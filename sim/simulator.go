// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulation time, the server pool,
// and the event loop for one run. It owns its EventLog exclusively until Run
// hands it back; nothing is shared between simulators.
type Simulator struct {
	Clock  float64
	Params SimulationParameters
	// Pool arbitrates the checkout servers and queues blocked clients FIFO.
	Pool *ServerPool
	// EventQueue holds pending arrival and departure events.
	EventQueue *EventQueue

	clients  []*Client
	arrivals DurationSampler
	service  DurationSampler
	log      *EventLog
	// number of clients whose arrival has been scheduled
	scheduled int
	ran       bool
}

// NewSimulator validates params and prepares a run seeded from params.Seed.
func NewSimulator(params SimulationParameters) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulation parameters: %w", err)
	}
	rng := NewPartitionedRNG(NewSimulationKey(params.Seed))
	return NewSimulatorWithSamplers(params,
		NewExponentialSampler(params.ArrivalRate, rng.ForSubsystem(SubsystemArrivals)),
		NewExponentialSampler(params.ServiceRate, rng.ForSubsystem(SubsystemService)),
	)
}

// NewSimulatorWithSamplers is NewSimulator with caller-supplied duration
// samplers, for deterministic tests and alternative arrival processes.
func NewSimulatorWithSamplers(params SimulationParameters, arrivals, service DurationSampler) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulation parameters: %w", err)
	}
	if arrivals == nil || service == nil {
		return nil, fmt.Errorf("%w: samplers must not be nil", ErrInvalidParameter)
	}
	s := &Simulator{
		Params:     params,
		Pool:       NewServerPool(params.Servers),
		EventQueue: NewEventQueue(),
		clients:    make([]*Client, 0, params.Clients),
		arrivals:   arrivals,
		service:    service,
		log:        newEventLog(params),
	}
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.EventQueue.Schedule(ev)
}

// Run processes events in timestamp order until none remain and returns the
// completed log. Every scheduled client is eventually served: there is no
// horizon, abandonment or cancellation. Run may be called only once.
func (sim *Simulator) Run() *EventLog {
	if sim.ran {
		panic("Simulator.Run: simulator already ran")
	}
	sim.ran = true
	logrus.Infof("Starting simulation: %s", sim.Params)

	sim.scheduleNextArrival(0)
	for sim.EventQueue.Len() > 0 {
		ev := sim.EventQueue.PopNext()
		sim.Clock = ev.Timestamp()
		logrus.Tracef("[%.6fh] Executing %T", sim.Clock, ev)
		ev.Execute(sim)
	}

	if sim.log.Empty() {
		logrus.Warn("No events were generated: nothing to simulate")
	}
	logrus.Infof("[%.6fh] Simulation ended after %d events", sim.Clock, sim.log.Len())
	return sim.log
}

// Clients returns a snapshot of every client created so far, in ID order.
func (sim *Simulator) Clients() []Client {
	out := make([]Client, len(sim.clients))
	for i, c := range sim.clients {
		out[i] = *c
	}
	return out
}

// scheduleNextArrival creates the next client, if any remain, and schedules
// its arrival one exponential inter-arrival time after now.
func (sim *Simulator) scheduleNextArrival(now float64) {
	if sim.scheduled >= sim.Params.Clients {
		return
	}
	sim.scheduled++
	c := NewClient(sim.scheduled)
	sim.clients = append(sim.clients, c)
	sim.Schedule(&ArrivalEvent{time: now + sim.arrivals.Sample(), Client: c})
}

// startService records that c holds a server from now on and schedules its departure.
func (sim *Simulator) startService(c *Client, now float64) {
	c.StartService(now)
	logrus.Debugf("== ServiceStart: client %d at %.4fh (waited %.4fh, busy=%d/%d)",
		c.ID, now, c.WaitTime(), sim.Pool.Busy(), sim.Pool.Capacity())
	sim.log.append(EventRecord{Time: now, ClientID: c.ID, Kind: ServiceStart})
	sim.Schedule(&DepartureEvent{time: now + sim.service.Sample(), Client: c})
}

func (sim *Simulator) client(id int) *Client {
	return sim.clients[id-1]
}

// Run validates params, simulates every client, and returns the event log.
// Zero clients yields an empty log and no error.
func Run(params SimulationParameters) (*EventLog, error) {
	s, err := NewSimulator(params)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

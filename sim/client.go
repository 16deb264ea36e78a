package sim

import "fmt"

// ClientState is a client's position in its lifecycle.
type ClientState string

const (
	ClientAwaitingArrival ClientState = "awaiting_arrival"
	ClientArrived         ClientState = "arrived"
	ClientAwaitingServer  ClientState = "awaiting_server"
	ClientInService       ClientState = "in_service"
	ClientDeparted        ClientState = "departed"
)

// Unset marks a lifecycle timestamp that has not been reached yet.
const Unset = -1.0

// Client is one shopper passing through the checkout.
// Lifecycle: awaiting_arrival → arrived → (awaiting_server) → in_service → departed.
// Timestamps are set exactly once by the transition that reaches them.
type Client struct {
	ID               int
	ArrivalTime      float64
	ServiceStartTime float64
	DepartureTime    float64
	State            ClientState
}

// NewClient creates a client that has been scheduled but not yet arrived.
func NewClient(id int) *Client {
	return &Client{
		ID:               id,
		ArrivalTime:      Unset,
		ServiceStartTime: Unset,
		DepartureTime:    Unset,
		State:            ClientAwaitingArrival,
	}
}

// Arrive records the arrival time.
func (c *Client) Arrive(now float64) {
	c.mustBeIn(ClientAwaitingArrival)
	c.ArrivalTime = now
	c.State = ClientArrived
}

// Wait marks the client as blocked on the server pool.
func (c *Client) Wait() {
	c.mustBeIn(ClientArrived)
	c.State = ClientAwaitingServer
}

// StartService records the time a server was granted.
func (c *Client) StartService(now float64) {
	c.mustBeIn(ClientArrived, ClientAwaitingServer)
	c.ServiceStartTime = now
	c.State = ClientInService
}

// Depart records the time service completed.
func (c *Client) Depart(now float64) {
	c.mustBeIn(ClientInService)
	c.DepartureTime = now
	c.State = ClientDeparted
}

// WaitTime returns the time spent queueing, or Unset if service has not started.
func (c *Client) WaitTime() float64 {
	if c.ServiceStartTime == Unset {
		return Unset
	}
	return c.ServiceStartTime - c.ArrivalTime
}

// SojournTime returns the total time in the system, or Unset before departure.
func (c *Client) SojournTime() float64 {
	if c.DepartureTime == Unset {
		return Unset
	}
	return c.DepartureTime - c.ArrivalTime
}

func (c *Client) String() string {
	return fmt.Sprintf("client_%d(%s)", c.ID, c.State)
}

func (c *Client) mustBeIn(states ...ClientState) {
	for _, s := range states {
		if c.State == s {
			return
		}
	}
	panic(fmt.Sprintf("client %d: illegal transition from state %q", c.ID, c.State))
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_Lifecycle_WithWait(t *testing.T) {
	c := NewClient(4)
	assert.Equal(t, ClientAwaitingArrival, c.State)
	assert.Equal(t, Unset, c.WaitTime())

	c.Arrive(1.0)
	c.Wait()
	assert.Equal(t, ClientAwaitingServer, c.State)

	c.StartService(1.5)
	assert.Equal(t, ClientInService, c.State)
	assert.InDelta(t, 0.5, c.WaitTime(), 1e-12)
	assert.Equal(t, Unset, c.SojournTime())

	c.Depart(2.0)
	assert.Equal(t, ClientDeparted, c.State)
	assert.InDelta(t, 1.0, c.SojournTime(), 1e-12)
}

func TestClient_Lifecycle_ImmediateService(t *testing.T) {
	c := NewClient(1)
	c.Arrive(0.3)
	c.StartService(0.3)
	assert.Equal(t, 0.0, c.WaitTime())
}

func TestClient_IllegalTransitions_Panic(t *testing.T) {
	assert.Panics(t, func() { NewClient(1).StartService(1) }, "service before arrival")
	assert.Panics(t, func() { NewClient(1).Depart(1) }, "departure before service")

	c := NewClient(2)
	c.Arrive(1)
	c.StartService(1)
	c.Depart(2)
	assert.Panics(t, func() { c.Arrive(3) }, "departed clients never come back")
}

package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/checkout-sim/sim"
)

type constSampler float64

func (c constSampler) Sample() float64 { return float64(c) }
func (c constSampler) Mean() float64   { return float64(c) }

func TestReplay_TwoStations(t *testing.T) {
	// GIVEN three clients arriving together at two stations, 1h services
	p := sim.SimulationParameters{ArrivalRate: 1, ServiceRate: 1, Servers: 2, Clients: 3}
	arrivals := sampleSeq{1, 0, 0}
	s, err := sim.NewSimulatorWithSamplers(p, &arrivals, constSampler(1))
	require.NoError(t, err)

	// WHEN replayed
	frames, err := Replay(s.Run(), 2)
	require.NoError(t, err)
	require.Len(t, frames, 9)

	// THEN the third client queues until the first station frees up
	assert.Equal(t, []int{1, 2}, frames[3].Stations)
	assert.Equal(t, []int{3}, frames[4].Queue)
	assert.Equal(t, sim.Exit, frames[5].Kind)
	assert.Equal(t, []int{0, 2}, frames[5].Stations)
	assert.Equal(t, []int{3, 2}, frames[6].Stations)
	assert.Empty(t, frames[6].Queue)
	assert.Equal(t, 1, frames[6].Station(3))
	assert.Equal(t, 0, frames[6].Station(1))

	last := frames[len(frames)-1]
	assert.Equal(t, []int{0, 0}, last.Stations)
	assert.Empty(t, last.Queue)
}

func TestReplay_FramesDoNotAlias(t *testing.T) {
	p := sim.SimulationParameters{ArrivalRate: 5, ServiceRate: 4, Servers: 2, Clients: 30, Seed: 3}
	log, err := sim.Run(p)
	require.NoError(t, err)

	frames, err := Replay(log, p.Servers)
	require.NoError(t, err)
	require.Len(t, frames, log.Len())

	frames[0].Queue = append(frames[0].Queue[:0], 99)
	assert.NotContains(t, frames[1].Queue, 99)
	for _, f := range frames {
		busy := 0
		for _, c := range f.Stations {
			if c != 0 {
				busy++
			}
		}
		assert.LessOrEqual(t, busy, p.Servers)
	}
}

func TestReplay_TooFewStations(t *testing.T) {
	// GIVEN a run on two servers replayed onto one station
	p := sim.SimulationParameters{ArrivalRate: 1, ServiceRate: 1, Servers: 2, Clients: 2}
	arrivals := sampleSeq{1, 0}
	s, err := sim.NewSimulatorWithSamplers(p, &arrivals, constSampler(1))
	require.NoError(t, err)

	_, err = Replay(s.Run(), 1)
	assert.ErrorIs(t, err, ErrNoFreeStation)
}

func TestReplay_InvalidStations(t *testing.T) {
	_, err := Replay(nil, 0)
	assert.Error(t, err)

	frames, err := Replay(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestFrame_String(t *testing.T) {
	f := Frame{Time: 1.5, Kind: sim.ServiceStart, ClientID: 4, Stations: []int{4, 0}, Queue: []int{5, 6}}
	got := f.String()
	assert.Contains(t, got, "service_start")
	assert.Contains(t, got, "   4 |   . |")
	assert.Contains(t, got, "queue: 5 6")
}

// sampleSeq returns its values in order, then repeats the last one.
type sampleSeq []float64

func (s *sampleSeq) Sample() float64 {
	v := (*s)[0]
	if len(*s) > 1 {
		*s = (*s)[1:]
	}
	return v
}

func (s *sampleSeq) Mean() float64 { return (*s)[0] }

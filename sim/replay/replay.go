// Package replay rebuilds per-instant station and queue occupancy from an
// EventLog so a run can be rendered step by step.
package replay

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/inference-sim/checkout-sim/sim"
)

var (
	// ErrNoFreeStation is returned when a log starts more services than there are stations.
	ErrNoFreeStation = errors.New("no free station")
	// ErrUnknownClient is returned when a log moves a client that is not where it should be.
	ErrUnknownClient = errors.New("client not found")
)

// Frame is the state of the checkout area right after one record.
// Stations[i] holds the client at station i+1, or 0 when it is free.
type Frame struct {
	Time     float64       `json:"time" yaml:"time"`
	Kind     sim.EventKind `json:"event" yaml:"event"`
	ClientID int           `json:"client_id" yaml:"client_id"`
	Stations []int         `json:"stations" yaml:"stations"`
	Queue    []int         `json:"queue" yaml:"queue"`
}

// Station returns the 1-based station serving id, or 0.
func (f Frame) Station(id int) int {
	return slices.Index(f.Stations, id) + 1
}

func (f Frame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%9.4fh %-13s #%-4d |", f.Time, f.Kind, f.ClientID)
	for _, c := range f.Stations {
		if c == 0 {
			b.WriteString("   . |")
		} else {
			fmt.Fprintf(&b, "%4d |", c)
		}
	}
	b.WriteString(" queue:")
	for _, c := range f.Queue {
		fmt.Fprintf(&b, " %d", c)
	}
	return b.String()
}

// Replay returns one frame per record. Arrivals join the back of the queue,
// a service start moves the client from the queue to the lowest-numbered
// free station, and an exit frees that station.
func Replay(log *sim.EventLog, stations int) ([]Frame, error) {
	if stations < 1 {
		return nil, fmt.Errorf("replay needs at least one station, got %d", stations)
	}
	state := make([]int, stations)
	var queue []int
	frames := make([]Frame, 0, log.Len())

	for i, r := range log.Records() {
		switch r.Kind {
		case sim.Arrival:
			queue = append(queue, r.ClientID)
		case sim.ServiceStart:
			pos := slices.Index(queue, r.ClientID)
			if pos < 0 {
				return nil, fmt.Errorf("record %d: client %d starts service but is not queued: %w", i, r.ClientID, ErrUnknownClient)
			}
			free := slices.Index(state, 0)
			if free < 0 {
				return nil, fmt.Errorf("record %d: client %d at %.4fh: %w", i, r.ClientID, r.Time, ErrNoFreeStation)
			}
			queue = slices.Delete(queue, pos, pos+1)
			state[free] = r.ClientID
		case sim.Exit:
			at := slices.Index(state, r.ClientID)
			if at < 0 {
				return nil, fmt.Errorf("record %d: client %d exits but is not being served: %w", i, r.ClientID, ErrUnknownClient)
			}
			state[at] = 0
		default:
			return nil, fmt.Errorf("record %d: unexpected event kind %v", i, r.Kind)
		}
		frames = append(frames, Frame{
			Time:     r.Time,
			Kind:     r.Kind,
			ClientID: r.ClientID,
			Stations: slices.Clone(state),
			Queue:    slices.Clone(queue),
		})
	}
	return frames, nil
}

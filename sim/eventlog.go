package sim

import (
	"fmt"
	"strings"
)

// EventKind identifies what happened to a client.
type EventKind int

const (
	Arrival EventKind = iota
	ServiceStart
	Exit
)

var eventKindNames = map[EventKind]string{
	Arrival:      "arrival",
	ServiceStart: "service_start",
	Exit:         "exit",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText encodes the kind by name for JSON, YAML and CSV exports.
func (k EventKind) MarshalText() ([]byte, error) {
	name, ok := eventKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *EventKind) UnmarshalText(text []byte) error {
	kind, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseEventKind maps a name such as "service_start" back to its kind.
func ParseEventKind(name string) (EventKind, error) {
	for k, n := range eventKindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", name)
}

// EventRecord is one immutable entry of an EventLog.
// QueueLength is only meaningful for Arrival records: the number of clients
// already waiting for a server when this client arrived.
type EventRecord struct {
	Time        float64   `json:"time" yaml:"time"`
	ClientID    int       `json:"client_id" yaml:"client_id"`
	Kind        EventKind `json:"event" yaml:"event"`
	QueueLength int       `json:"queue_length,omitempty" yaml:"queue_length,omitempty"`
}

func (r EventRecord) String() string {
	if r.Kind == Arrival {
		return fmt.Sprintf("%.4fh client %d %s (queue=%d)", r.Time, r.ClientID, r.Kind, r.QueueLength)
	}
	return fmt.Sprintf("%.4fh client %d %s", r.Time, r.ClientID, r.Kind)
}

// EventLog is the ordered record of one simulation run: timestamps are
// non-decreasing and ties keep the order in which events were scheduled.
// Only the run that produced it appends to it; callers get read-only access.
// A nil or empty log means there was nothing to simulate.
type EventLog struct {
	params  SimulationParameters
	records []EventRecord
}

func newEventLog(params SimulationParameters) *EventLog {
	return &EventLog{
		params:  params,
		records: make([]EventRecord, 0, 3*params.Clients),
	}
}

func (l *EventLog) append(r EventRecord) {
	if n := len(l.records); n > 0 && r.Time < l.records[n-1].Time {
		panic(fmt.Sprintf("EventLog: record at %v precedes last record at %v", r.Time, l.records[n-1].Time))
	}
	l.records = append(l.records, r)
}

// Params returns the parameters of the run that produced the log.
func (l *EventLog) Params() SimulationParameters {
	if l == nil {
		return SimulationParameters{}
	}
	return l.params
}

// Len returns the number of records.
func (l *EventLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Empty reports whether the log holds no records.
func (l *EventLog) Empty() bool {
	return l.Len() == 0
}

// At returns the i-th record.
func (l *EventLog) At(i int) EventRecord {
	return l.records[i]
}

// Records returns a copy of all records in log order.
func (l *EventLog) Records() []EventRecord {
	if l == nil {
		return nil
	}
	out := make([]EventRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Count returns the number of records of the given kind.
func (l *EventLog) Count(kind EventKind) int {
	n := 0
	for i := 0; i < l.Len(); i++ {
		if l.records[i].Kind == kind {
			n++
		}
	}
	return n
}

// ForClient returns the records of one client in log order.
func (l *EventLog) ForClient(id int) []EventRecord {
	var out []EventRecord
	for i := 0; i < l.Len(); i++ {
		if l.records[i].ClientID == id {
			out = append(out, l.records[i])
		}
	}
	return out
}

// Duration returns the timestamp of the last record, or 0 for an empty log.
func (l *EventLog) Duration() float64 {
	if l.Empty() {
		return 0
	}
	return l.records[len(l.records)-1].Time
}

// Timeline reconstructs per-client lifecycle timestamps from the log,
// indexed by client ID - 1. Unreached timestamps are Unset.
func (l *EventLog) Timeline() []Client {
	clients := make([]Client, l.Params().Clients)
	for i := range clients {
		clients[i] = *NewClient(i + 1)
	}
	for i := 0; i < l.Len(); i++ {
		r := l.records[i]
		if r.ClientID < 1 || r.ClientID > len(clients) {
			continue
		}
		c := &clients[r.ClientID-1]
		switch r.Kind {
		case Arrival:
			c.ArrivalTime, c.State = r.Time, ClientArrived
		case ServiceStart:
			c.ServiceStartTime, c.State = r.Time, ClientInService
		case Exit:
			c.DepartureTime, c.State = r.Time, ClientDeparted
		}
	}
	return clients
}

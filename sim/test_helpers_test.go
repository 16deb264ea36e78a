package sim

import "testing"

// fixedSampler replays a fixed sequence of durations, repeating the last one.
type fixedSampler struct {
	values []float64
	next   int
}

func newFixedSampler(values ...float64) *fixedSampler {
	return &fixedSampler{values: values}
}

func (f *fixedSampler) Sample() float64 {
	v := f.values[min(f.next, len(f.values)-1)]
	f.next++
	return v
}

func (f *fixedSampler) Mean() float64 {
	sum := 0.0
	for _, v := range f.values {
		sum += v
	}
	return sum / float64(len(f.values))
}

// mustRun runs a seeded simulation and fails the test on error.
func mustRun(t *testing.T, p SimulationParameters) *EventLog {
	t.Helper()
	log, err := Run(p)
	if err != nil {
		t.Fatalf("Run(%v): %v", p, err)
	}
	return log
}

// assertLogInvariants checks the structural guarantees every complete log must satisfy.
func assertLogInvariants(t *testing.T, log *EventLog) {
	t.Helper()
	p := log.Params()
	records := log.Records()

	for _, kind := range []EventKind{Arrival, ServiceStart, Exit} {
		if got := log.Count(kind); got != p.Clients {
			t.Errorf("%s records = %d, want %d", kind, got, p.Clients)
		}
	}

	arrived := map[int]float64{}
	started := map[int]float64{}
	inService, waiting := 0, 0
	nextToStart := 1
	for i, r := range records {
		if i > 0 && r.Time < records[i-1].Time {
			t.Fatalf("record %d at %v precedes record %d at %v", i, r.Time, i-1, records[i-1].Time)
		}
		switch r.Kind {
		case Arrival:
			if r.QueueLength != waiting {
				t.Errorf("client %d queue length at arrival = %d, want %d", r.ClientID, r.QueueLength, waiting)
			}
			arrived[r.ClientID] = r.Time
			waiting++
		case ServiceStart:
			at, ok := arrived[r.ClientID]
			if !ok {
				t.Fatalf("client %d started service before arriving", r.ClientID)
			}
			if r.Time < at {
				t.Errorf("client %d starts at %v before arrival %v", r.ClientID, r.Time, at)
			}
			// FIFO: IDs are assigned in arrival order, so starts must follow ID order
			if r.ClientID != nextToStart {
				t.Errorf("client %d started service out of FIFO order, expected client %d", r.ClientID, nextToStart)
			}
			nextToStart++
			started[r.ClientID] = r.Time
			waiting--
			inService++
			if inService > p.Servers {
				t.Fatalf("at %v: %d clients in service with %d servers", r.Time, inService, p.Servers)
			}
		case Exit:
			st, ok := started[r.ClientID]
			if !ok {
				t.Fatalf("client %d exited without starting service", r.ClientID)
			}
			if r.Time < st {
				t.Errorf("client %d exits at %v before service start %v", r.ClientID, r.Time, st)
			}
			inService--
		}
		// work conservation: nobody waits while a server is idle
		if waiting > 0 && inService < p.Servers {
			next := i + 1
			if next >= len(records) || records[next].Time != r.Time {
				t.Errorf("at %v: %d waiting with only %d/%d servers busy", r.Time, waiting, inService, p.Servers)
			}
		}
	}
	if inService != 0 || waiting != 0 {
		t.Errorf("run ended with %d in service and %d waiting", inService, waiting)
	}
}

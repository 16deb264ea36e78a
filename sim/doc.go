// Package sim provides the discrete-event simulation engine for an M/M/s
// checkout queue: Poisson arrivals, exponential service, s identical servers,
// FIFO discipline, no abandonment.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - client.go: Client lifecycle (awaiting_arrival → arrived → awaiting_server → in_service → departed)
//   - event.go: ArrivalEvent and DepartureEvent, the only two event types
//   - server_pool.go: the counting resource with its explicit FIFO wait queue
//   - simulator.go: the event loop that pops the earliest event and applies it
//
// A run is fully described by SimulationParameters. Randomness comes from a
// PartitionedRNG keyed by the seed, so identical parameters produce identical
// EventLogs. The log is the sole output consumed downstream.
//
// # Sub-packages
//   - sim/queueing: closed-form M/M/s steady-state metrics (independent of the engine)
//   - sim/analysis: empirical statistics of an EventLog and theory comparison
//   - sim/replay: station-by-station replay of an EventLog
//   - sim/record: CSV and SQLite persistence of EventLogs
package sim

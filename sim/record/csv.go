// Package record persists EventLogs: CSV and JSON/YAML files for inspection,
// and a SQLite database that accumulates runs.
package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/checkout-sim/sim"
)

var csvHeader = []string{"time_h", "client_id", "event", "queue_length"}

// WriteCSV writes one row per record. Times are hours; queue_length is only
// filled for arrivals.
func WriteCSV(w io.Writer, log *sim.EventLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range log.Records() {
		queue := ""
		if r.Kind == sim.Arrival {
			queue = strconv.Itoa(r.QueueLength)
		}
		row := []string{
			strconv.FormatFloat(r.Time, 'f', 10, 64),
			strconv.Itoa(r.ClientID),
			r.Kind.String(),
			queue,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for client %d: %w", r.ClientID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV back into records.
func ReadCSV(r io.Reader) ([]sim.EventRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]sim.EventRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("csv row %d: want %d fields, got %d", i+1, len(csvHeader), len(row))
		}
		var rec sim.EventRecord
		if rec.Time, err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, fmt.Errorf("csv row %d: time: %w", i+1, err)
		}
		if rec.ClientID, err = strconv.Atoi(row[1]); err != nil {
			return nil, fmt.Errorf("csv row %d: client_id: %w", i+1, err)
		}
		if rec.Kind, err = sim.ParseEventKind(row[2]); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		if row[3] != "" {
			if rec.QueueLength, err = strconv.Atoi(row[3]); err != nil {
				return nil, fmt.Errorf("csv row %d: queue_length: %w", i+1, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/checkout-sim/sim"
)

// Document is the JSON/YAML form of one run.
type Document struct {
	RunID      string                   `json:"run_id" yaml:"run_id"`
	Parameters sim.SimulationParameters `json:"parameters" yaml:"parameters"`
	Events     []sim.EventRecord        `json:"events" yaml:"events"`
}

// NewDocument wraps log for encoding.
func NewDocument(runID string, log *sim.EventLog) Document {
	events := log.Records()
	if events == nil {
		events = []sim.EventRecord{}
	}
	return Document{RunID: runID, Parameters: log.Params(), Events: events}
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(w io.Writer, runID string, log *sim.EventLog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(runID, log)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML encodes the run as YAML.
func WriteYAML(w io.Writer, runID string, log *sim.EventLog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(runID, log)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Export writes log to path in the format named by its extension:
// .csv, .json, .yaml/.yml, or .sqlite3/.sqlite/.db. SQLite files are
// appended to; other files are overwritten.
func Export(path, runID string, log *sim.EventLog) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".sqlite3", ".sqlite", ".db":
		rec, err := OpenSQLiteRecorder(path)
		if err != nil {
			return err
		}
		if err := rec.Record(runID, log); err != nil {
			_ = rec.Close()
			return err
		}
		return rec.Close()
	case ".csv", ".json", ".yaml", ".yml":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		switch ext {
		case ".csv":
			err = WriteCSV(f, log)
		case ".json":
			err = WriteJSON(f, runID, log)
		default:
			err = WriteYAML(f, runID, log)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	default:
		return fmt.Errorf("unsupported export format %q (want .csv, .json, .yaml or .sqlite3)", ext)
	}
}

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/checkout-sim/sim"
)

// Scenario is a partial set of simulation parameters. Unset fields leave the
// current value alone, so a scenario file and the command-line flags can be
// layered on top of the defaults.
type Scenario struct {
	ArrivalRate     *Rate     `yaml:"arrival_rate"`
	ArrivalInterval *Interval `yaml:"arrival_interval"`
	ServiceRate     *Rate     `yaml:"service_rate"`
	ServiceTime     *Interval `yaml:"service_time"`
	Servers         *int      `yaml:"servers"`
	Clients         *int      `yaml:"clients"`
	Seed            *int64    `yaml:"seed"`
}

// LoadScenario reads a scenario file. Unknown keys are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := parseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return sc, nil
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &sc, nil
}

// Apply overwrites the fields of p that the scenario sets.
func (sc *Scenario) Apply(p *sim.SimulationParameters) error {
	if sc.ArrivalRate != nil && sc.ArrivalInterval != nil {
		return errors.New("arrival_rate and arrival_interval are mutually exclusive")
	}
	if sc.ServiceRate != nil && sc.ServiceTime != nil {
		return errors.New("service_rate and service_time are mutually exclusive")
	}
	if sc.ArrivalRate != nil {
		p.ArrivalRate = float64(*sc.ArrivalRate)
	}
	if sc.ArrivalInterval != nil {
		rate, err := PerHour(time.Duration(*sc.ArrivalInterval))
		if err != nil {
			return fmt.Errorf("arrival_interval: %w", err)
		}
		p.ArrivalRate = rate
	}
	if sc.ServiceRate != nil {
		p.ServiceRate = float64(*sc.ServiceRate)
	}
	if sc.ServiceTime != nil {
		rate, err := PerHour(time.Duration(*sc.ServiceTime))
		if err != nil {
			return fmt.Errorf("service_time: %w", err)
		}
		p.ServiceRate = rate
	}
	if sc.Servers != nil {
		p.Servers = *sc.Servers
	}
	if sc.Clients != nil {
		p.Clients = *sc.Clients
	}
	if sc.Seed != nil {
		p.Seed = *sc.Seed
	}
	return nil
}

// paramFlags binds the simulation parameters to a command's flags.
type paramFlags struct {
	scenario        string
	arrivalRate     Rate
	serviceRate     Rate
	arrivalInterval time.Duration
	serviceTime     time.Duration
	servers         int
	clients         int
	seed            int64
}

// Defaults of the checkout scenario: 85 clients/h, 55 served/h per
// checkout, one checkout, 15 clients.
var defaultParams = sim.SimulationParameters{
	ArrivalRate: 85,
	ServiceRate: 55,
	Servers:     1,
	Clients:     15,
	Seed:        42,
}

func (f *paramFlags) register(fs *pflag.FlagSet) {
	f.arrivalRate = Rate(defaultParams.ArrivalRate)
	f.serviceRate = Rate(defaultParams.ServiceRate)
	fs.StringVar(&f.scenario, "scenario", "", "YAML scenario file; flags given explicitly override its values")
	fs.Var(&f.arrivalRate, "arrival-rate", "Client arrival rate lambda (e.g. 85, 85/h, 1.5/min)")
	fs.Var(&f.serviceRate, "service-rate", "Service rate mu of one checkout (e.g. 55, 55/h, 0.9/min)")
	fs.DurationVar(&f.arrivalInterval, "arrival-interval", 0, "Mean time between arrivals, alternative to --arrival-rate (e.g. 42s)")
	fs.DurationVar(&f.serviceTime, "service-time", 0, "Mean service time, alternative to --service-rate (e.g. 65s)")
	fs.IntVarP(&f.servers, "servers", "s", defaultParams.Servers, "Number of checkouts")
	fs.IntVarP(&f.clients, "clients", "n", defaultParams.Clients, "Number of clients to simulate")
	fs.Int64Var(&f.seed, "seed", defaultParams.Seed, "Seed for the random arrival and service streams")
	fs.SortFlags = false
}

// resolve layers the scenario file, then the explicitly set flags, over the defaults.
func (f *paramFlags) resolve(fs *pflag.FlagSet) (sim.SimulationParameters, error) {
	p := defaultParams
	if f.scenario != "" {
		sc, err := LoadScenario(f.scenario)
		if err != nil {
			return p, err
		}
		if err := sc.Apply(&p); err != nil {
			return p, fmt.Errorf("scenario %s: %w", f.scenario, err)
		}
	}
	if err := f.fromFlags(fs).Apply(&p); err != nil {
		return p, fmt.Errorf("flags: %w", err)
	}
	return p, nil
}

func (f *paramFlags) fromFlags(fs *pflag.FlagSet) *Scenario {
	sc := &Scenario{}
	if fs.Changed("arrival-rate") {
		sc.ArrivalRate = &f.arrivalRate
	}
	if fs.Changed("arrival-interval") {
		iv := Interval(f.arrivalInterval)
		sc.ArrivalInterval = &iv
	}
	if fs.Changed("service-rate") {
		sc.ServiceRate = &f.serviceRate
	}
	if fs.Changed("service-time") {
		iv := Interval(f.serviceTime)
		sc.ServiceTime = &iv
	}
	if fs.Changed("servers") {
		sc.Servers = &f.servers
	}
	if fs.Changed("clients") {
		sc.Clients = &f.clients
	}
	if fs.Changed("seed") {
		sc.Seed = &f.seed
	}
	return sc
}

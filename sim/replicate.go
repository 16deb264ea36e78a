package sim

import (
	"context"
	"fmt"
	"sync"
)

// Replicate runs one independent simulation per seed, using params for
// everything but the seed, on up to workers goroutines. Logs are returned in
// seed order. Runs not yet started when ctx is cancelled are skipped and the
// context error is returned.
func Replicate(ctx context.Context, params SimulationParameters, seeds []int64, workers int) ([]*EventLog, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulation parameters: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(seeds) {
		workers = len(seeds)
	}

	logs := make([]*EventLog, len(seeds))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := params
				p.Seed = seeds[i]
				s, err := NewSimulator(p)
				if err != nil {
					// params were validated above; only the seed differs
					panic(err)
				}
				logs[i] = s.Run()
			}
		}()
	}

	var err error
feed:
	for i := range seeds {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("replication cancelled: %w", err)
	}
	return logs, nil
}

// Seeds returns n consecutive seeds starting at base.
func Seeds(base int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = base + int64(i)
	}
	return out
}

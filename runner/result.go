package runner

import "time"

// Result is the outcome of one agent in a batch.
type Result struct {
	// Index is the agent's position in the input list.
	Index int
	// Name is the agent's name.
	Name string
	// Output is nil when the backend answered without content.
	Output *string
	// Err is only set under the Isolate policy.
	Err error
	// Duration is the wall time spent in the backend call.
	Duration time.Duration
}

// Text returns the output or the empty string.
func (r Result) Text() string {
	if r.Output == nil {
		return ""
	}
	return *r.Output
}

// Batch holds the results of one RunAll call in input order.
type Batch struct {
	ID       string
	Input    string
	Results  []Result
	Started  time.Time
	Finished time.Time
}

// Outputs maps agent names to their outputs.
func (b *Batch) Outputs() map[string]*string {
	out := make(map[string]*string, len(b.Results))
	for _, r := range b.Results {
		out[r.Name] = r.Output
	}
	return out
}

// Failed returns the results carrying an error, in input order.
func (b *Batch) Failed() []Result {
	var failed []Result
	for _, r := range b.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Duration returns the batch wall time.
func (b *Batch) Duration() time.Duration { return b.Finished.Sub(b.Started) }

// Package timing tracks how long pipeline steps take and keeps a per-run
// summary for the completion log.
package timing

import (
	"time"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// Step is one running pipeline step.
type Step struct {
	name    string
	started time.Time
	summary *Summary
}

// Result is a finished step.
type Result struct {
	Name     string
	Duration time.Duration
}

// Summary collects finished steps for one pipeline run.
type Summary struct {
	results []Result
}

// NewSummary returns an empty run summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Start begins timing a step and logs it.
func (s *Summary) Start(name string) *Step {
	logger.Info("[Pipeline] Step started", "step", name)
	return &Step{name: name, started: time.Now(), summary: s}
}

// Done finishes the step, records it in the summary and logs the duration.
func (st *Step) Done() time.Duration {
	elapsed := time.Since(st.started)
	st.summary.results = append(st.summary.results, Result{Name: st.name, Duration: elapsed})
	logger.Info("[Pipeline] Step finished", "step", st.name, "duration", util.FormatDuration(elapsed))
	return elapsed
}

// Results returns the finished steps in completion order.
func (s *Summary) Results() []Result {
	return s.results
}

// Total sums the recorded step durations.
func (s *Summary) Total() time.Duration {
	var total time.Duration
	for _, r := range s.results {
		total += r.Duration
	}
	return total
}

// Log writes the run summary: one line per step, then the total.
func (s *Summary) Log() {
	for _, r := range s.results {
		logger.Info("[Pipeline] Step timing", "step", r.Name, "duration", util.FormatDuration(r.Duration))
	}
	logger.Info("[Pipeline] Run complete", "steps", len(s.results), "total", util.FormatDuration(s.Total()))
}

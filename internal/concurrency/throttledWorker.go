package concurrency

import (
	"errors"
	"fmt"
	"time"
)

// ThrottledWorker runs one job per argument, spaced out so the bridge is
// not sent more requests than it can handle.
type ThrottledWorker struct {
	interval    time.Duration
	jobCallback func(arg string) error
}

func NewThrottledWorker(interval time.Duration, jobCallback func(arg string) error) ThrottledWorker {
	return ThrottledWorker{interval: interval, jobCallback: jobCallback}
}

// Run calls the job for every argument in order. A failing job does not
// stop the rest; all failures are returned together.
func (w *ThrottledWorker) Run(jobArgs []string) error {

	jobArgsChannel := make(chan string, len(jobArgs))

	for _, arg := range jobArgs {
		jobArgsChannel <- arg
	}
	close(jobArgsChannel)
	limiter := time.NewTicker(w.interval)
	defer limiter.Stop()

	var errs []error
	for arg := range jobArgsChannel {
		<-limiter.C
		if err := w.jobCallback(arg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", arg, err))
		}
	}

	return errors.Join(errs...)
}

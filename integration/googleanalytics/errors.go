package googleanalytics

import "fmt"

// UnknownMetricMappingError is a configuration error: a requested metric index
// has no mapping entry. It is fatal and never retried.
type UnknownMetricMappingError struct {
	MetricIndex int
}

func (e *UnknownMetricMappingError) Error() string {
	return fmt.Sprintf("no google analytics metric mapping for metric index %d", e.MetricIndex)
}

// DailyRateLimitError means the view's daily API quota is exhausted. Waiting
// within this run cannot resolve it, so the whole query fails immediately and
// the import should be rescheduled for a future day.
type DailyRateLimitError struct {
	Err error
}

func (e *DailyRateLimitError) Error() string {
	return fmt.Sprintf("daily reporting API rate limit reached: %v", e.Err)
}

func (e *DailyRateLimitError) Unwrap() error {
	return e.Err
}

// ExhaustedRetriesError means a single chunk failed more times than the retry
// budget allows. The import is resumable, so the caller can restart it later.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("giving up after %d attempts against the reporting API, the import can be restarted later: %v",
		e.Attempts, e.LastErr)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}

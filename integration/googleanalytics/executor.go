package googleanalytics

import (
	"net/http"
	"strings"
	"time"

	U "gaimporter/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
)

const (
	maxAttemptsPerChunk    = 30
	initialBackoffSeconds  = 1
	maxBackoffSeconds      = 60
	serverErrorWaitSeconds = 60
	emptyResponseWait      = 1 * time.Second
	postRequestPause       = 100 * time.Millisecond
)

// DefaultPingInterval bounds how long the heartbeat side channel stays idle
// during backoff waits.
const DefaultPingInterval = 25 * time.Second

// problematicGAMetrics are metrics the API is known to answer with a missing
// row count for certain date combinations. They are dropped from a chunk once
// before the chunk is given up as empty.
var problematicGAMetrics = []string{gaUsers, gaHits}

// HeartbeatFunc pings an idle side channel (typically the destination database
// connection) so it is not dropped while the executor waits out API backoff.
// Heartbeat failures are logged, never fatal.
type HeartbeatFunc func() error

type retryingExecutor struct {
	client       ReportClient
	heartbeat    HeartbeatFunc
	pingInterval time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)

	onQueryMade func()
}

func newRetryingExecutor(client ReportClient, heartbeat HeartbeatFunc, pingInterval time.Duration) *retryingExecutor {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &retryingExecutor{
		client:       client,
		heartbeat:    heartbeat,
		pingInterval: pingInterval,
		sleep:        time.Sleep,
	}
}

// executeChunk runs one chunked request to completion. It returns the response
// together with the metric list the response rows are positionally keyed by,
// which can shrink when the problematic metrics are dropped. Errors returned
// here are fatal to the whole query.
func (executor *retryingExecutor) executeChunk(logCtx *log.Entry, request *ReportRequest,
	gaMetrics []string) (*GetReportsResponse, []string, error) {

	backoffSeconds := initialBackoffSeconds
	attempts := 0
	reduced := false
	var lastErr error

	for attempts < maxAttemptsPerChunk {
		executor.beat(logCtx)

		response, err := executor.client.ExecuteReport(request)
		if err != nil {
			lastErr = err
			apiErr, isAPIError := err.(*googleapi.Error)
			if !isAPIError {
				return nil, nil, err
			}

			switch {
			case isRateLimitStatus(apiErr.Code) && isDailyQuotaMessage(apiErr.Message):
				return nil, nil, &DailyRateLimitError{Err: apiErr}
			case isRateLimitStatus(apiErr.Code):
				attempts++
				logCtx.WithError(apiErr).WithFields(log.Fields{
					"attempts": attempts, "wait_seconds": backoffSeconds,
				}).Warn("Reporting API rate limit hit. Backing off.")
				executor.sleepWithHeartbeat(logCtx, time.Duration(backoffSeconds)*time.Second)
				backoffSeconds = U.MinInt(backoffSeconds*2, maxBackoffSeconds)
			case apiErr.Code >= http.StatusInternalServerError:
				attempts++
				logCtx.WithError(apiErr).WithField("attempts", attempts).
					Warn("Reporting API server error. Waiting before retry.")
				executor.sleepWithHeartbeat(logCtx, serverErrorWaitSeconds*time.Second)
			default:
				return nil, nil, err
			}
			continue
		}

		if response == nil || len(response.Reports) == 0 {
			attempts++
			lastErr = errors.New("empty response from reporting API")
			logCtx.WithField("attempts", attempts).Warn("Empty response from reporting API. Retrying.")
			executor.sleep(emptyResponseWait)
			continue
		}

		if rowCountIsNull(response) {
			if reduced {
				logCtx.Warn("Row count still missing after dropping problematic metrics. Skipping chunk.")
				return &GetReportsResponse{}, gaMetrics, nil
			}

			reducedMetrics := U.StringSliceDiff(gaMetrics, problematicGAMetrics)
			if len(reducedMetrics) == 0 || len(reducedMetrics) == len(gaMetrics) {
				logCtx.Warn("Row count missing from report and no problematic metrics to drop. Skipping chunk.")
				return &GetReportsResponse{}, gaMetrics, nil
			}

			logCtx.WithField("metrics", reducedMetrics).
				Warn("Row count missing from report. Retrying with reduced metric set.")
			reduced = true
			gaMetrics = reducedMetrics
			request.Metrics = buildRequestMetrics(reducedMetrics)
			// The order-by may have been one of the dropped metrics; the API
			// rejects a sort on a metric absent from the request.
			if len(request.OrderBys) > 0 &&
				!U.ContainsStringInArray(reducedMetrics, request.OrderBys[0].FieldName) {
				request.OrderBys = []OrderBy{{
					FieldName: reducedMetrics[0],
					SortOrder: request.OrderBys[0].SortOrder,
				}}
			}
			continue
		}

		if executor.onQueryMade != nil {
			executor.onQueryMade()
		}
		// Brief pause between chunk requests so the API is not hammered.
		executor.sleep(postRequestPause)
		return response, gaMetrics, nil
	}

	return nil, nil, &ExhaustedRetriesError{Attempts: attempts, LastErr: lastErr}
}

func (executor *retryingExecutor) beat(logCtx *log.Entry) {
	if executor.heartbeat == nil {
		return
	}
	if err := executor.heartbeat(); err != nil {
		logCtx.WithError(err).Warn("Heartbeat ping failed.")
	}
}

// sleepWithHeartbeat splits a long wait into sub-intervals no longer than the
// ping interval, beating after each one, so the side channel does not time out
// during a 60s backoff.
func (executor *retryingExecutor) sleepWithHeartbeat(logCtx *log.Entry, total time.Duration) {
	for remaining := total; remaining > 0; {
		interval := executor.pingInterval
		if remaining < interval {
			interval = remaining
		}
		executor.sleep(interval)
		executor.beat(logCtx)
		remaining -= interval
	}
}

func isRateLimitStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusTooManyRequests
}

func isDailyQuotaMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "daily")
}

func rowCountIsNull(response *GetReportsResponse) bool {
	return response.Reports[0].Data.RowCount == nil
}

func buildRequestMetrics(gaMetrics []string) []Metric {
	metrics := make([]Metric, 0, len(gaMetrics))
	for _, gaMetric := range gaMetrics {
		metrics = append(metrics, Metric{Expression: gaMetric})
	}
	return metrics
}

package googleanalytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildMetricList(count int) []string {
	metrics := make([]string, 0, count)
	for i := 0; i < count; i++ {
		metrics = append(metrics, fmt.Sprintf("ga:metric%d", i))
	}
	return metrics
}

func TestChunkMetrics(t *testing.T) {
	chunks := chunkMetrics(buildMetricList(9))
	assert.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 9)

	chunks = chunkMetrics(buildMetricList(10))
	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 9)
	assert.Len(t, chunks[1], 1)

	chunks = chunkMetrics(buildMetricList(21))
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 3)

	// Order is preserved across chunk boundaries.
	assert.Equal(t, "ga:metric8", chunks[0][8])
	assert.Equal(t, "ga:metric9", chunks[1][0])
}

func TestChunkRequestMetrics(t *testing.T) {
	orderBy := OrderBy{FieldName: "ga:sessions", SortOrder: sortOrderDescending}

	// A chunk lacking the order-by metric gets it appended, never exceeding
	// the API's ten metric limit.
	chunk := buildMetricList(9)
	requestMetrics := chunkRequestMetrics(chunk, orderBy)
	assert.Len(t, requestMetrics, 10)
	assert.Equal(t, "ga:sessions", requestMetrics[9])

	// A chunk already containing it is left as is.
	withSessions := append(buildMetricList(3), "ga:sessions")
	assert.Equal(t, withSessions, chunkRequestMetrics(withSessions, orderBy))

	// The original chunk is not mutated by the append.
	assert.Len(t, chunk, 9)
}

func TestDefaultOrderByFactory(t *testing.T) {
	// Sessions wins when queried.
	orderBy := defaultOrderByFactory([]string{"ga:users", "ga:sessions", "ga:hits"}, nil)
	assert.Equal(t, "ga:sessions", orderBy.FieldName)
	assert.Equal(t, sortOrderDescending, orderBy.SortOrder)

	// Otherwise the first metric.
	orderBy = defaultOrderByFactory([]string{"ga:pageviews", "ga:bounces"}, nil)
	assert.Equal(t, "ga:pageviews", orderBy.FieldName)

	// An explicit caller sort is honoured, defaulting its direction.
	options := &QueryOptions{OrderBys: []OrderBy{{FieldName: "ga:users"}}}
	orderBy = defaultOrderByFactory([]string{"ga:sessions", "ga:users"}, options)
	assert.Equal(t, "ga:users", orderBy.FieldName)
	assert.Equal(t, sortOrderDescending, orderBy.SortOrder)

	options = &QueryOptions{OrderBys: []OrderBy{{FieldName: "ga:users", SortOrder: sortOrderAscending}}}
	orderBy = defaultOrderByFactory([]string{"ga:users"}, options)
	assert.Equal(t, sortOrderAscending, orderBy.SortOrder)
}

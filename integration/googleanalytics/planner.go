package googleanalytics

import (
	U "gaimporter/util"
)

// The reporting API accepts ten metrics per request. Chunks are capped one
// below that so the order-by metric can always be injected into a chunk that
// lacks it.
const maxMetricsPerChunk = 9

const (
	sortOrderAscending  = "ASCENDING"
	sortOrderDescending = "DESCENDING"
)

// OrderByFactory picks the metric every chunk of a query is sorted by, given
// the full resolved metric list and the caller's options.
type OrderByFactory func(gaMetrics []string, options *QueryOptions) OrderBy

// defaultOrderByFactory honours an explicit caller sort, otherwise sorts
// descending on the session count when queried, falling back to the first
// metric. Chunked requests interleave rows inconsistently on merge unless all
// chunks share one order-by, so a single choice is made up front.
func defaultOrderByFactory(gaMetrics []string, options *QueryOptions) OrderBy {
	if options != nil && len(options.OrderBys) > 0 {
		orderBy := options.OrderBys[0]
		if orderBy.SortOrder == "" {
			orderBy.SortOrder = sortOrderDescending
		}
		return orderBy
	}

	field := gaMetrics[0]
	if U.ContainsStringInArray(gaMetrics, gaSessions) {
		field = gaSessions
	}
	return OrderBy{FieldName: field, SortOrder: sortOrderDescending}
}

// chunkMetrics splits the resolved metric list into consecutive chunks of at
// most maxMetricsPerChunk, preserving the original order.
func chunkMetrics(gaMetrics []string) [][]string {
	return U.GetStringListAsBatch(gaMetrics, maxMetricsPerChunk)
}

// chunkRequestMetrics returns the metric list actually requested for a chunk:
// the chunk itself plus the order-by metric when the chunk lacks it.
func chunkRequestMetrics(chunk []string, orderBy OrderBy) []string {
	if U.ContainsStringInArray(chunk, orderBy.FieldName) {
		return chunk
	}

	withOrderBy := make([]string, 0, len(chunk)+1)
	withOrderBy = append(withOrderBy, chunk...)
	return append(withOrderBy, orderBy.FieldName)
}

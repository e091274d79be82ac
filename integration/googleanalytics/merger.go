package googleanalytics

import (
	"gaimporter/model"
	U "gaimporter/util"
)

// mergeChunkResponse folds one chunk's response rows into the running table.
// requestMetrics is the positional metric order of the chunk's request;
// creditedMetrics is the subset of those this chunk owns, so the order-by
// metric injected into every request is only counted from the one chunk it
// belongs to. defaultValues is the shared zero-valued row over every metric of
// the whole query, so rows contributed by one chunk can later be summed with
// any other chunk's columns.
//
// Chunks of one query return disjoint owned metric sets over identical
// dimension breakdowns, so summing into an existing row with the same label is
// a merge: each metric only ever receives a real value from one chunk.
func mergeChunkResponse(table *model.ReportTable, response *GetReportsResponse,
	requestMetrics []string, creditedMetrics []string, dimensions []string,
	defaultValues map[string]float64) {

	for _, report := range response.Reports {
		for _, dataRow := range report.Data.Rows {
			row := newRowFromDataRow(&dataRow, requestMetrics, creditedMetrics,
				dimensions, defaultValues)

			if len(dimensions) == 0 {
				// Totals-only query: every chunk row belongs to the table's
				// single row.
				first := table.FirstRow()
				if first == nil {
					table.AddRow(row)
					continue
				}
				first.SumRow(row)
				continue
			}

			table.SumRowWithLabel(row)
		}
	}
}

func newRowFromDataRow(dataRow *DataRow, requestMetrics []string, creditedMetrics []string,
	dimensions []string, defaultValues map[string]float64) *model.ReportRow {

	label := model.BuildRowLabel(dataRow.Dimensions)
	row := model.NewReportRow(label)

	for gaMetric, zero := range defaultValues {
		row.Values[gaMetric] = zero
	}

	for _, rangeValues := range dataRow.Metrics {
		for position, value := range rangeValues.Values {
			if position >= len(requestMetrics) {
				break
			}
			gaMetric := requestMetrics[position]
			if !U.ContainsStringInArray(creditedMetrics, gaMetric) {
				continue
			}
			row.SetColumn(gaMetric, U.SafeConvertToFloat64(value))
		}
	}

	for position, dimension := range dimensions {
		if position >= len(dataRow.Dimensions) {
			break
		}
		row.SetMetadata(dimension, dataRow.Dimensions[position])
	}

	return row
}

// newDefaultValues builds the shared zero-valued row covering every metric of
// the query.
func newDefaultValues(gaMetrics []string) map[string]float64 {
	defaults := make(map[string]float64, len(gaMetrics))
	for _, gaMetric := range gaMetrics {
		defaults[gaMetric] = 0
	}
	return defaults
}

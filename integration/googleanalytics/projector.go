package googleanalytics

import (
	"math"
	"strconv"

	"gaimporter/model"
)

// projectColumns rewrites the merged table's remote-metric-named columns into
// internal metric index columns, applying the conversion formulas registered in
// the mapping. The final column set of every row is the label plus the
// requested metric indices that have a present value; all remote-named columns
// are discarded. Running it on an already projected table is a no-op.
func projectColumns(table *model.ReportTable, metricIndices []int,
	resolved *ResolvedMetrics, mapping *MetricMapping) {

	for _, row := range table.Rows() {
		if len(row.Values) == 0 {
			// Already projected.
			continue
		}

		for _, index := range metricIndices {
			entry := resolved.ByIndex[index]
			value, present := projectEntry(row, entry, mapping)
			if !present {
				continue
			}
			row.Metrics[index] = value
		}

		row.Values = make(map[string]float64)
	}
}

func projectEntry(row *model.ReportRow, entry model.MappingEntry,
	mapping *MetricMapping) (interface{}, bool) {

	switch entry.Formula {
	case model.FormulaFloor:
		value, present := row.GetColumn(entry.GAMetrics[0])
		if !present {
			return nil, false
		}
		return math.Floor(value), true

	case model.FormulaConvertedVisits:
		return projectConvertedVisits(row, entry)

	case model.FormulaConversionsTotal:
		total := float64(0)
		present := false
		for _, gaMetric := range entry.GAMetrics {
			value, found := row.GetColumn(gaMetric)
			if !found {
				continue
			}
			total += value
			present = true
		}
		if !present {
			return nil, false
		}
		return total, true

	case model.FormulaGoalGroup:
		group := buildGoalGroup(row, mapping)
		if len(group) == 0 {
			return nil, false
		}
		return group, true

	default:
		value, present := row.GetColumn(entry.GAMetrics[0])
		if !present {
			return nil, false
		}
		return value, true
	}
}

// projectConvertedVisits turns a conversion-rate percentage column and the
// session count into an integer count of converted visits. An absent rate
// counts as zero; an absent session count makes the whole value absent.
func projectConvertedVisits(row *model.ReportRow, entry model.MappingEntry) (interface{}, bool) {
	sessions, present := row.GetColumn(entry.GAMetrics[1])
	if !present {
		return nil, false
	}

	rate, _ := row.GetColumn(entry.GAMetrics[0])
	return math.Floor(rate / 100 * sessions), true
}

// buildGoalGroup builds the nested per-goal structure: goal id to sub-metric
// index to value, plus the synthetic ecommerce goal when enabled. A goal whose
// conversion-rate source column is absent is omitted entirely.
func buildGoalGroup(row *model.ReportRow, mapping *MetricMapping) model.GoalGroup {
	group := model.GoalGroup{}

	for _, goal := range mapping.goals {
		entries := mapping.goalEntries[goal.RemoteGoalID]
		subMetrics := buildGoalSubMetrics(row, entries)
		if subMetrics == nil {
			continue
		}
		group[strconv.FormatInt(goal.ID, 10)] = subMetrics
	}

	if mapping.ecommerceEnabled {
		subMetrics := buildGoalSubMetrics(row, mapping.ecommerceEntries)
		if subMetrics != nil {
			group[model.EcommerceGoalKey] = subMetrics
		}
	}

	return group
}

func buildGoalSubMetrics(row *model.ReportRow, entries map[int]model.MappingEntry) map[int]float64 {
	rateEntry := entries[model.IndexGoalVisitsConverted]
	if _, present := row.GetColumn(rateEntry.GAMetrics[0]); !present {
		return nil
	}

	subMetrics := make(map[int]float64, len(entries))
	for subIndex, entry := range entries {
		value, present := projectEntry(row, entry, nil)
		if !present {
			continue
		}
		subMetrics[subIndex] = value.(float64)
	}

	if len(subMetrics) == 0 {
		return nil
	}
	return subMetrics
}

package googleanalytics

import (
	"fmt"

	"gaimporter/model"
	U "gaimporter/util"

	"github.com/imdario/mergo"
)

const (
	gaSessions = "ga:sessions"
	gaUsers    = "ga:users"
	gaHits     = "ga:hits"
)

// MetricMapping holds the declarative correspondence between the internal
// metric index space and the reporting API's named metrics. Goal and ecommerce
// sub-mappings are synthesized once from project settings at construction and
// the mapping is immutable afterwards.
type MetricMapping struct {
	entries          map[int]model.MappingEntry
	goalEntries      map[int64]map[int]model.MappingEntry
	ecommerceEntries map[int]model.MappingEntry
	goals            []model.Goal
	ecommerceEnabled bool
}

// ResolvedMetrics is the query-time product of the mapping: the actual metric
// list sent to the API and the per-index conversion rules applied afterwards.
type ResolvedMetrics struct {
	GAMetrics []string
	ByIndex   map[int]model.MappingEntry
}

func NewMetricMapping(settings *model.ProjectSettings) *MetricMapping {
	mapping := &MetricMapping{
		entries:          defaultMetricIndexToGAMetrics(),
		goalEntries:      make(map[int64]map[int]model.MappingEntry),
		goals:            settings.Goals,
		ecommerceEnabled: settings.EcommerceEnabled,
	}

	goalsQueryMetrics := make([]string, 0)
	for _, goal := range settings.Goals {
		entries := goalSpecificMetricIndicesToGAMetrics(goal.RemoteGoalID)
		mapping.goalEntries[goal.RemoteGoalID] = entries
		goalsQueryMetrics = append(goalsQueryMetrics, flattenEntryMetrics(entries)...)
	}

	if settings.EcommerceEnabled {
		mapping.ecommerceEntries = ecommerceMetricIndicesToGAMetrics()
		goalsQueryMetrics = append(goalsQueryMetrics, flattenEntryMetrics(mapping.ecommerceEntries)...)
	}

	// The converted-visit ratios of the goal group divide by the session count,
	// so sessions has to be fetched whenever goals are queried.
	goalsQueryMetrics = append(goalsQueryMetrics, gaSessions)
	mapping.entries[model.IndexGoals] = model.MappingEntry{
		GAMetrics: U.DedupStrings(goalsQueryMetrics),
		Formula:   model.FormulaGoalGroup,
	}

	return mapping
}

func defaultMetricIndexToGAMetrics() map[int]model.MappingEntry {
	return map[int]model.MappingEntry{
		model.IndexUniqVisitors:    {GAMetrics: []string{gaUsers}},
		model.IndexVisits:          {GAMetrics: []string{gaSessions}},
		model.IndexActions:         {GAMetrics: []string{gaHits}},
		model.IndexSumVisitLength:  {GAMetrics: []string{"ga:sessionDuration"}, Formula: model.FormulaFloor},
		model.IndexBounceCount:     {GAMetrics: []string{"ga:bounces"}},
		model.IndexVisitsConverted: {GAMetrics: []string{"ga:goalConversionRateAll", gaSessions}, Formula: model.FormulaConvertedVisits},
		model.IndexConversions:     {GAMetrics: []string{"ga:goalCompletionsAll", "ga:transactions"}, Formula: model.FormulaConversionsTotal},
		model.IndexRevenue:         {GAMetrics: []string{"ga:totalValue"}},
		model.IndexPageviews:       {GAMetrics: []string{"ga:pageviews"}},
		model.IndexUniqPageviews:   {GAMetrics: []string{"ga:uniquePageviews"}},
	}
}

func goalSpecificMetricIndicesToGAMetrics(remoteGoalID int64) map[int]model.MappingEntry {
	return map[int]model.MappingEntry{
		model.IndexGoalConversions: {GAMetrics: []string{fmt.Sprintf("ga:goal%dCompletions", remoteGoalID)}},
		model.IndexGoalRevenue:     {GAMetrics: []string{fmt.Sprintf("ga:goal%dValue", remoteGoalID)}},
		model.IndexGoalVisitsConverted: {
			GAMetrics: []string{fmt.Sprintf("ga:goal%dConversionRate", remoteGoalID), gaSessions},
			Formula:   model.FormulaConvertedVisits,
		},
	}
}

func ecommerceMetricIndicesToGAMetrics() map[int]model.MappingEntry {
	return map[int]model.MappingEntry{
		model.IndexGoalConversions: {GAMetrics: []string{"ga:transactions"}},
		model.IndexGoalRevenue:     {GAMetrics: []string{"ga:transactionRevenue"}},
		model.IndexGoalVisitsConverted: {
			GAMetrics: []string{"ga:transactionsPerSession", gaSessions},
			Formula:   model.FormulaConvertedVisits,
		},
	}
}

func flattenEntryMetrics(entries map[int]model.MappingEntry) []string {
	// Stable order: sub-metric indices are a small fixed set.
	flattened := make([]string, 0, len(entries))
	for _, subIndex := range []int{model.IndexGoalConversions, model.IndexGoalRevenue, model.IndexGoalVisitsConverted} {
		entry, found := entries[subIndex]
		if !found {
			continue
		}
		flattened = append(flattened, entry.GAMetrics...)
	}
	return flattened
}

// Resolve looks up every requested metric index and flattens the remote metric
// names into a deduplicated, first-seen-order query list. Overrides are merged
// ahead of the default table; an unmapped index is a fatal configuration error.
func (mapping *MetricMapping) Resolve(metricIndices []int,
	overrides map[int]model.MappingEntry) (*ResolvedMetrics, error) {

	entries := mapping.entries
	if len(overrides) > 0 {
		merged := make(map[int]model.MappingEntry, len(entries))
		if err := mergo.Merge(&merged, overrides); err != nil {
			return nil, err
		}
		if err := mergo.Merge(&merged, mapping.entries); err != nil {
			return nil, err
		}
		entries = merged
	}

	resolved := &ResolvedMetrics{
		GAMetrics: make([]string, 0, len(metricIndices)),
		ByIndex:   make(map[int]model.MappingEntry, len(metricIndices)),
	}
	for _, index := range metricIndices {
		entry, found := entries[index]
		if !found {
			return nil, &UnknownMetricMappingError{MetricIndex: index}
		}
		resolved.ByIndex[index] = entry
		resolved.GAMetrics = append(resolved.GAMetrics, entry.GAMetrics...)
	}
	resolved.GAMetrics = U.DedupStrings(resolved.GAMetrics)

	return resolved, nil
}

// GetMetricIndicesToGAMetrics exposes the main mapping table.
func (mapping *MetricMapping) GetMetricIndicesToGAMetrics() map[int]model.MappingEntry {
	return mapping.entries
}

// GetEcommerceMetricIndicesToGAMetrics exposes the synthetic ecommerce
// sub-mapping, nil when ecommerce is not enabled for the project.
func (mapping *MetricMapping) GetEcommerceMetricIndicesToGAMetrics() map[int]model.MappingEntry {
	return mapping.ecommerceEntries
}

// GetGoalSpecificMetricIndicesToGAMetrics exposes one goal's sub-mapping.
func (mapping *MetricMapping) GetGoalSpecificMetricIndicesToGAMetrics(remoteGoalID int64) map[int]model.MappingEntry {
	return mapping.goalEntries[remoteGoalID]
}

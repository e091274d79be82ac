package googleanalytics

import (
	"testing"

	"gaimporter/model"

	"github.com/stretchr/testify/assert"
)

func TestResolveDedupesSharedMetrics(t *testing.T) {
	mapping := NewMetricMapping(&model.ProjectSettings{})

	// Visits and converted visits both need ga:sessions; it is queried once.
	resolved, err := mapping.Resolve([]int{model.IndexVisits, model.IndexVisitsConverted}, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"ga:sessions", "ga:goalConversionRateAll"}, resolved.GAMetrics)

	assert.Equal(t, model.FormulaConvertedVisits, resolved.ByIndex[model.IndexVisitsConverted].Formula)
	assert.Equal(t, model.FormulaNone, resolved.ByIndex[model.IndexVisits].Formula)
}

func TestResolvePreservesRequestOrder(t *testing.T) {
	mapping := NewMetricMapping(&model.ProjectSettings{})

	resolved, err := mapping.Resolve([]int{model.IndexPageviews, model.IndexUniqVisitors, model.IndexVisits}, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"ga:pageviews", "ga:users", "ga:sessions"}, resolved.GAMetrics)
}

func TestResolveUnknownMetricIndex(t *testing.T) {
	mapping := NewMetricMapping(&model.ProjectSettings{})

	resolved, err := mapping.Resolve([]int{model.IndexVisits, 99}, nil)
	assert.Nil(t, resolved)
	assert.NotNil(t, err)

	mappingErr, ok := err.(*UnknownMetricMappingError)
	assert.True(t, ok)
	assert.Equal(t, 99, mappingErr.MetricIndex)
}

func TestResolveWithOverrides(t *testing.T) {
	mapping := NewMetricMapping(&model.ProjectSettings{})

	overrides := map[int]model.MappingEntry{
		model.IndexVisits: {GAMetrics: []string{"ga:newUsers"}},
	}
	resolved, err := mapping.Resolve([]int{model.IndexVisits, model.IndexActions}, overrides)
	assert.Nil(t, err)
	assert.Equal(t, []string{"ga:newUsers", "ga:hits"}, resolved.GAMetrics)

	// The default table itself stays untouched.
	resolved, err = mapping.Resolve([]int{model.IndexVisits}, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"ga:sessions"}, resolved.GAMetrics)
}

func TestGoalSpecificMetricSynthesis(t *testing.T) {
	settings := &model.ProjectSettings{
		Goals: []model.Goal{
			{ID: 101, RemoteGoalID: 1},
			{ID: 102, RemoteGoalID: 3},
		},
	}
	mapping := NewMetricMapping(settings)

	goal1 := mapping.GetGoalSpecificMetricIndicesToGAMetrics(1)
	assert.Equal(t, []string{"ga:goal1Completions"}, goal1[model.IndexGoalConversions].GAMetrics)
	assert.Equal(t, []string{"ga:goal1Value"}, goal1[model.IndexGoalRevenue].GAMetrics)
	assert.Equal(t, []string{"ga:goal1ConversionRate", "ga:sessions"},
		goal1[model.IndexGoalVisitsConverted].GAMetrics)
	assert.Equal(t, model.FormulaConvertedVisits, goal1[model.IndexGoalVisitsConverted].Formula)

	goal3 := mapping.GetGoalSpecificMetricIndicesToGAMetrics(3)
	assert.Equal(t, []string{"ga:goal3Completions"}, goal3[model.IndexGoalConversions].GAMetrics)

	assert.Nil(t, mapping.GetGoalSpecificMetricIndicesToGAMetrics(9))
}

func TestGoalsGroupQueryMetrics(t *testing.T) {
	settings := &model.ProjectSettings{
		EcommerceEnabled: true,
		Goals:            []model.Goal{{ID: 101, RemoteGoalID: 2}},
	}
	mapping := NewMetricMapping(settings)

	resolved, err := mapping.Resolve([]int{model.IndexGoals}, nil)
	assert.Nil(t, err)

	// All goal metrics, the ecommerce metrics and sessions, deduplicated.
	assert.Equal(t, []string{
		"ga:goal2Completions", "ga:goal2Value", "ga:goal2ConversionRate", "ga:sessions",
		"ga:transactions", "ga:transactionRevenue", "ga:transactionsPerSession",
	}, resolved.GAMetrics)
	assert.Equal(t, model.FormulaGoalGroup, resolved.ByIndex[model.IndexGoals].Formula)
}

func TestEcommerceMetricSynthesis(t *testing.T) {
	withEcommerce := NewMetricMapping(&model.ProjectSettings{EcommerceEnabled: true})
	entries := withEcommerce.GetEcommerceMetricIndicesToGAMetrics()
	assert.Equal(t, []string{"ga:transactions"}, entries[model.IndexGoalConversions].GAMetrics)
	assert.Equal(t, []string{"ga:transactionRevenue"}, entries[model.IndexGoalRevenue].GAMetrics)
	assert.Equal(t, []string{"ga:transactionsPerSession", "ga:sessions"},
		entries[model.IndexGoalVisitsConverted].GAMetrics)

	withoutEcommerce := NewMetricMapping(&model.ProjectSettings{})
	assert.Empty(t, withoutEcommerce.GetEcommerceMetricIndicesToGAMetrics())
}

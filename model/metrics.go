package model

// Internal metric index space used by the destination analytics store. Imported
// report columns are keyed by these indices once projection has run.
const (
	IndexUniqVisitors    = 1
	IndexVisits          = 2
	IndexActions         = 3
	IndexMaxActions      = 4
	IndexSumVisitLength  = 5
	IndexBounceCount     = 6
	IndexVisitsConverted = 7
	IndexConversions     = 8
	IndexRevenue         = 9
	IndexGoals           = 10
	IndexPageviews       = 12
	IndexUniqPageviews   = 13
)

// Sub-metric indices within the goals group column.
const (
	IndexGoalConversions     = 1
	IndexGoalRevenue         = 2
	IndexGoalVisitsConverted = 3
)

// EcommerceGoalKey is the goals-group key used for the synthetic ecommerce goal.
const EcommerceGoalKey = "ecommerceOrder"

// FormulaKind selects the post-query conversion applied to a mapped metric.
type FormulaKind int

const (
	FormulaNone FormulaKind = iota
	// FormulaFloor floors the raw value to integer seconds.
	FormulaFloor
	// FormulaConvertedVisits multiplies a percentage column by the session count
	// and floors the result.
	FormulaConvertedVisits
	// FormulaConversionsTotal sums goal completions and ecommerce transactions.
	FormulaConversionsTotal
	// FormulaGoalGroup builds the nested per-goal metric structure.
	FormulaGoalGroup
)

// MappingEntry maps one internal metric index to one or more remote metric
// names, optionally with a conversion formula applied at projection time. The
// first name is the primary column read back from the merged report.
type MappingEntry struct {
	GAMetrics []string
	Formula   FormulaKind
}

// GoalGroup is the projected value of the goals column: goal id (or
// EcommerceGoalKey) to sub-metric index to value.
type GoalGroup map[string]map[int]float64

// Goal is one configured conversion objective of a project, with the goal id
// used on the remote Google Analytics view.
type Goal struct {
	ID           int64  `gorm:"primary_key:true" json:"id"`
	ProjectID    int64  `json:"project_id"`
	Name         string `json:"name"`
	RemoteGoalID int64  `json:"remote_goal_id"`
}

// ProjectSettings holds the per-project import configuration consumed by the
// metric mapping.
type ProjectSettings struct {
	ProjectID        int64  `json:"project_id"`
	GAViewID         string `json:"ga_view_id"`
	EcommerceEnabled bool   `json:"ecommerce_enabled"`
	Goals            []Goal `json:"goals"`
}

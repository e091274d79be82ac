package model

import "strings"

// NotSetValue is the sentinel Google Analytics returns for an absent dimension
// value. It occupies its position in the row label as an empty segment and is
// stored as nil metadata.
const NotSetValue = "(not set)"

// ReportRow is one dimensional breakdown of an imported report. Values holds
// remote-metric-named columns while chunks are being merged; Metrics holds the
// final metric-index-keyed columns once projection has run. Metadata keeps each
// dimension's raw value keyed by dimension name (nil when not set).
type ReportRow struct {
	Label    string                 `json:"label"`
	Values   map[string]float64     `json:"values,omitempty"`
	Metrics  map[int]interface{}    `json:"metrics,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func NewReportRow(label string) *ReportRow {
	return &ReportRow{
		Label:    label,
		Values:   make(map[string]float64),
		Metrics:  make(map[int]interface{}),
		Metadata: make(map[string]interface{}),
	}
}

// SetColumn sets a remote-metric-named column value.
func (row *ReportRow) SetColumn(gaMetric string, value float64) {
	row.Values[gaMetric] = value
}

// GetColumn returns a remote-metric-named column value and whether it is present.
func (row *ReportRow) GetColumn(gaMetric string) (float64, bool) {
	value, found := row.Values[gaMetric]
	return value, found
}

// SetMetadata stores one dimension's value on the row. NotSetValue is stored as nil.
func (row *ReportRow) SetMetadata(dimension string, value string) {
	if value == NotSetValue {
		row.Metadata[dimension] = nil
		return
	}
	row.Metadata[dimension] = value
}

// SumRow adds every remote-named column of other into this row. Metadata and
// projected metrics are left untouched: two rows with the same label describe
// the same entity, so the first row's dimension values stand.
func (row *ReportRow) SumRow(other *ReportRow) {
	for gaMetric, value := range other.Values {
		row.Values[gaMetric] += value
	}
}

// BuildRowLabel joins dimension values in request order with commas. NotSetValue
// contributes an empty segment but still occupies its position.
func BuildRowLabel(dimensionValues []string) string {
	segments := make([]string, 0, len(dimensionValues))
	for _, value := range dimensionValues {
		if value == NotSetValue {
			segments = append(segments, "")
			continue
		}
		segments = append(segments, value)
	}
	return strings.Join(segments, ",")
}

// ReportTable is an ordered collection of report rows indexed for lookup by
// label. It is built incrementally as response chunks arrive and returned as
// the final result of one query invocation.
type ReportTable struct {
	rows       []*ReportRow
	rowByLabel map[string]*ReportRow
}

func NewReportTable() *ReportTable {
	return &ReportTable{
		rows:       make([]*ReportRow, 0),
		rowByLabel: make(map[string]*ReportRow),
	}
}

func (table *ReportTable) Rows() []*ReportRow {
	return table.rows
}

func (table *ReportTable) RowCount() int {
	return len(table.rows)
}

// FirstRow returns the table's first row, or nil when the table is empty.
func (table *ReportTable) FirstRow() *ReportRow {
	if len(table.rows) == 0 {
		return nil
	}
	return table.rows[0]
}

func (table *ReportTable) FindRowByLabel(label string) *ReportRow {
	return table.rowByLabel[label]
}

// AddRow appends the row, keeping the label index current. The caller must not
// add two rows with the same label; use SumRowWithLabel for merge semantics.
func (table *ReportTable) AddRow(row *ReportRow) {
	table.rows = append(table.rows, row)
	table.rowByLabel[row.Label] = row
}

// SumRowWithLabel merges the row into an existing row with the same label, or
// appends it when the label is new.
func (table *ReportTable) SumRowWithLabel(row *ReportRow) {
	existing := table.FindRowByLabel(row.Label)
	if existing == nil {
		table.AddRow(row)
		return
	}
	existing.SumRow(row)
}

package googleanalytics

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"gaimporter/model"
	"gaimporter/searchengine"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

type fakeDocumentStore struct {
	documents []*model.GADocument
	status    int
}

func (store *fakeDocumentStore) CreateGADocument(document *model.GADocument) int {
	store.documents = append(store.documents, document)
	if store.status != 0 {
		return store.status
	}
	return http.StatusCreated
}

func TestImportDateRange(t *testing.T) {
	values := map[string]map[string]float64{
		"google": {"ga:sessions": 100},
		"direct": {"ga:sessions": 12},
	}
	client := newTableReportClient(values)
	service := newTestQueryService(client)
	store := &fakeDocumentStore{}

	importer := NewImporter(service, store, searchengine.NewDefaultMapper(), 1, "12345")

	from := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	statuses, err := importer.ImportDateRange(from, to,
		[]string{"ga:source"}, []int{model.IndexVisits}, nil)

	assert.Nil(t, err)
	assert.Len(t, statuses, 3)
	assert.Len(t, store.documents, 3)

	assert.Equal(t, "2026-08-29", statuses[0].Date)
	assert.Equal(t, "2026-08-31", statuses[2].Date)
	assert.Equal(t, 2, statuses[0].Rows)

	document := store.documents[0]
	assert.Equal(t, int64(1), document.ProjectID)
	assert.Equal(t, "12345", document.GAViewID)
	assert.Equal(t, int64(20260829), document.Timestamp)
	assert.NotEmpty(t, document.ID)

	var rows []*model.ReportRow
	assert.Nil(t, json.Unmarshal(document.Value.RawMessage, &rows))
	assert.Len(t, rows, 2)
	// Source metadata is normalized to the canonical engine name.
	assert.Equal(t, "Google", rows[0].Metadata["ga:source"])
	assert.Equal(t, float64(100), rows[0].Metrics[model.IndexVisits])
}

func TestImportDateRangeSkipsExistingDays(t *testing.T) {
	values := map[string]map[string]float64{"google": {"ga:sessions": 100}}
	client := newTableReportClient(values)
	service := newTestQueryService(client)
	store := &fakeDocumentStore{status: http.StatusConflict}

	importer := NewImporter(service, store, nil, 1, "12345")

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	statuses, err := importer.ImportDateRange(day, day,
		[]string{"ga:source"}, []int{model.IndexVisits}, nil)

	// An already imported day is not an error, the run continues.
	assert.Nil(t, err)
	assert.Len(t, statuses, 1)
	assert.Empty(t, statuses[0].ErrMsg)
}

func TestImportDateRangeStopsOnFatalError(t *testing.T) {
	calls := 0
	client := &fakeReportClient{
		execute: func(request *ReportRequest) (*GetReportsResponse, error) {
			calls++
			if calls == 1 {
				return reportResponse(1, dataRow([]string{"google"}, "100")), nil
			}
			return nil, &googleapi.Error{Code: http.StatusForbidden, Message: "Daily Limit Exceeded"}
		},
	}
	service := newTestQueryService(client)
	store := &fakeDocumentStore{}

	importer := NewImporter(service, store, nil, 1, "12345")

	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	statuses, err := importer.ImportDateRange(from, to,
		[]string{"ga:source"}, []int{model.IndexVisits}, nil)

	assert.NotNil(t, err)
	_, ok := err.(*DailyRateLimitError)
	assert.True(t, ok)

	// The first day went through, the second failed, the third never ran.
	assert.Len(t, statuses, 2)
	assert.Empty(t, statuses[0].ErrMsg)
	assert.NotEmpty(t, statuses[1].ErrMsg)
	assert.Len(t, store.documents, 1)
}

func TestImportDateRangeStoreFailure(t *testing.T) {
	values := map[string]map[string]float64{"google": {"ga:sessions": 100}}
	client := newTableReportClient(values)
	service := newTestQueryService(client)
	store := &fakeDocumentStore{status: http.StatusInternalServerError}

	importer := NewImporter(service, store, nil, 1, "12345")

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	statuses, err := importer.ImportDateRange(day, day,
		[]string{"ga:source"}, []int{model.IndexVisits}, nil)

	assert.NotNil(t, err)
	assert.Len(t, statuses, 1)
	assert.NotEmpty(t, statuses[0].ErrMsg)
}

package googleanalytics

import (
	"encoding/json"
	"net/http"
	"time"

	"gaimporter/model"
	"gaimporter/searchengine"
	U "gaimporter/util"

	"github.com/jinzhu/gorm/dialects/postgres"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const gaSourceDimension = "ga:source"

// DocumentStore persists imported day tables.
type DocumentStore interface {
	CreateGADocument(document *model.GADocument) int
}

// Importer pulls a project's reporting data day by day and persists each day's
// merged table as a document in the destination store. Source dimension values
// are normalized to canonical search engine names before persisting.
type Importer struct {
	service   *QueryService
	store     DocumentStore
	mapper    *searchengine.Mapper
	projectID int64
	viewID    string
}

// ImportStatus reports the outcome of one imported day.
type ImportStatus struct {
	ProjectID int64  `json:"project_id"`
	Date      string `json:"date"`
	Rows      int    `json:"rows"`
	ErrMsg    string `json:"err_msg,omitempty"`
}

func NewImporter(service *QueryService, store DocumentStore,
	mapper *searchengine.Mapper, projectID int64, viewID string) *Importer {

	return &Importer{
		service:   service,
		store:     store,
		mapper:    mapper,
		projectID: projectID,
		viewID:    viewID,
	}
}

// ImportDateRange imports every day from from to to inclusive, strictly in
// order. Fatal query errors stop the run; the statuses collected so far are
// returned so the job can report partial progress and be restarted later.
func (importer *Importer) ImportDateRange(from, to time.Time, dimensions []string,
	metricIndices []int, options *QueryOptions) ([]ImportStatus, error) {

	statuses := make([]ImportStatus, 0)

	start := now.New(from).BeginningOfDay()
	end := now.New(to).BeginningOfDay()

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		logCtx := log.WithFields(log.Fields{"project_id": importer.projectID, "date": date})

		table, err := importer.service.Query(date, dimensions, metricIndices, options)
		if err != nil {
			statuses = append(statuses, ImportStatus{
				ProjectID: importer.projectID, Date: date, ErrMsg: err.Error(),
			})
			return statuses, err
		}

		importer.normalizeSourceDimension(table, dimensions)

		if err := importer.persistDay(day, table); err != nil {
			logCtx.WithError(err).Error(model.GASpecificError)
			statuses = append(statuses, ImportStatus{
				ProjectID: importer.projectID, Date: date, ErrMsg: err.Error(),
			})
			return statuses, err
		}

		logCtx.WithField("rows", table.RowCount()).Info("Imported google analytics day.")
		statuses = append(statuses, ImportStatus{
			ProjectID: importer.projectID, Date: date, Rows: table.RowCount(),
		})
	}

	return statuses, nil
}

// normalizeSourceDimension rewrites ga:source metadata values to canonical
// search engine names. Unknown sources pass through unchanged.
func (importer *Importer) normalizeSourceDimension(table *model.ReportTable, dimensions []string) {
	if importer.mapper == nil || !U.ContainsStringInArray(dimensions, gaSourceDimension) {
		return
	}

	for _, row := range table.Rows() {
		source, found := row.Metadata[gaSourceDimension]
		if !found || source == nil {
			continue
		}
		if sourceStr, isString := source.(string); isString {
			row.Metadata[gaSourceDimension] = importer.mapper.MapSourceToSearchEngine(sourceStr)
		}
	}
}

func (importer *Importer) persistDay(day time.Time, table *model.ReportTable) error {
	value, err := json.Marshal(table.Rows())
	if err != nil {
		return errors.Wrap(err, "failed to marshal imported table")
	}

	timestamp := int64(day.Year()*10000 + int(day.Month())*100 + day.Day())
	document := &model.GADocument{
		ID:        U.GetUUID(),
		ProjectID: importer.projectID,
		GAViewID:  importer.viewID,
		Timestamp: timestamp,
		Value:     &postgres.Jsonb{RawMessage: value},
	}

	errCode := importer.store.CreateGADocument(document)
	if errCode == http.StatusConflict {
		// The day was imported by an earlier run; keep going.
		log.WithFields(log.Fields{"project_id": importer.projectID, "timestamp": timestamp}).
			Warn("Google analytics document already exists. Skipping day.")
		return nil
	}
	if errCode != http.StatusCreated {
		return errors.Errorf("failed to create google analytics document, status %d", errCode)
	}
	return nil
}

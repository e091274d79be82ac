package store

import (
	"net/http"

	C "gaimporter/config"
	"gaimporter/model"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

const lastSyncInfoForAProjectGA = "SELECT project_id, ga_view_id, max(timestamp) as last_timestamp" +
	" " + "FROM ga_documents WHERE project_id = ? GROUP BY project_id, ga_view_id"

// Store wraps the destination database for imported google analytics documents.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetStore returns a store over the shared db service.
func GetStore() *Store {
	return New(C.GetServices().Db)
}

// CreateGADocument inserts one imported day document. Returns http.StatusConflict
// when the project, view and timestamp combination already exists.
func (store *Store) CreateGADocument(document *model.GADocument) int {
	logCtx := log.WithFields(log.Fields{
		"project_id": document.ProjectID,
		"ga_view_id": document.GAViewID,
		"timestamp":  document.Timestamp,
	})

	if document.ProjectID == 0 || document.GAViewID == "" || document.Timestamp == 0 {
		logCtx.Error("Invalid google analytics document on create.")
		return http.StatusBadRequest
	}

	var existing model.GADocument
	err := store.db.Where("project_id = ? AND ga_view_id = ? AND timestamp = ?",
		document.ProjectID, document.GAViewID, document.Timestamp).First(&existing).Error
	if err == nil {
		return http.StatusConflict
	}
	if !gorm.IsRecordNotFoundError(err) {
		logCtx.WithError(err).Error("Failed to check existing google analytics document.")
		return http.StatusInternalServerError
	}

	if err := store.db.Create(document).Error; err != nil {
		logCtx.WithError(err).Error("Failed to create google analytics document.")
		return http.StatusInternalServerError
	}
	return http.StatusCreated
}

// GetGADocuments returns a project's imported documents between the given day
// timestamps (YYYYMMDD), both inclusive.
func (store *Store) GetGADocuments(projectID int64, from, to int64) ([]model.GADocument, int) {
	documents := make([]model.GADocument, 0)

	err := store.db.Where("project_id = ? AND timestamp BETWEEN ? AND ?",
		projectID, from, to).Order("timestamp").Find(&documents).Error
	if err != nil {
		log.WithField("project_id", projectID).WithError(err).
			Error("Failed to get google analytics documents.")
		return documents, http.StatusInternalServerError
	}
	if len(documents) == 0 {
		return documents, http.StatusNotFound
	}
	return documents, http.StatusFound
}

// GetGALastSyncInfoForProject returns the most recent imported day per view of
// a project.
func (store *Store) GetGALastSyncInfoForProject(projectID int64) ([]model.GALastSyncInfo, int) {
	lastSyncInfos := make([]model.GALastSyncInfo, 0)

	rows, err := store.db.Raw(lastSyncInfoForAProjectGA, projectID).Rows()
	if err != nil {
		log.WithField("project_id", projectID).WithError(err).
			Error("Failed to get google analytics last sync info.")
		return lastSyncInfos, http.StatusInternalServerError
	}
	defer rows.Close()

	for rows.Next() {
		var lastSyncInfo model.GALastSyncInfo
		if err := rows.Scan(&lastSyncInfo.ProjectID, &lastSyncInfo.GAViewID,
			&lastSyncInfo.LastTimestamp); err != nil {
			log.WithField("project_id", projectID).WithError(err).
				Error("Failed to scan google analytics last sync info row.")
			return lastSyncInfos, http.StatusInternalServerError
		}
		lastSyncInfos = append(lastSyncInfos, lastSyncInfo)
	}

	return lastSyncInfos, http.StatusOK
}

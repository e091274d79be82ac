package model

import (
	"time"

	"github.com/jinzhu/gorm/dialects/postgres"
)

// GADocument stores one imported Google Analytics report table as a jsonb value,
// keyed by project, view and day timestamp (YYYYMMDD).
type GADocument struct {
	ID        string          `gorm:"primary_key:true;auto_increment:false" json:"id"`
	ProjectID int64           `gorm:"primary_key:true;auto_increment:false" json:"project_id"`
	GAViewID  string          `gorm:"primary_key:true;auto_increment:false" json:"ga_view_id"`
	Timestamp int64           `gorm:"primary_key:true;auto_increment:false" json:"timestamp"`
	Value     *postgres.Jsonb `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GALastSyncInfo reports the most recent imported day per project and view.
type GALastSyncInfo struct {
	ProjectID     int64  `json:"project_id"`
	GAViewID      string `json:"ga_view_id"`
	LastTimestamp int64  `json:"last_timestamp"`
}

type GALastSyncInfoPayload struct {
	ProjectID int64 `json:"project_id"`
}

// GADocumentsPayload requests a project's documents between two day
// timestamps (YYYYMMDD), both inclusive.
type GADocumentsPayload struct {
	ProjectID int64 `json:"project_id"`
	From      int64 `json:"from"`
	To        int64 `json:"to"`
}

const (
	GASpecificError = "Failed in google analytics import with the error."
)

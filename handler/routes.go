package handler

import (
	"gaimporter/handler/internal"

	"github.com/gin-gonic/gin"
)

// InitDataServiceRoutes registers the internal data service routes used by
// other backend jobs to write and inspect imported documents.
func InitDataServiceRoutes(r *gin.Engine) {
	r.POST("/data_service/google_analytics/documents/add", internal.DataServiceGAAddDocumentHandler)
	r.POST("/data_service/google_analytics/documents/get", internal.DataServiceGAGetDocumentsHandler)
	r.POST("/data_service/google_analytics/documents/last_sync_info", internal.DataServiceGAGetLastSyncInfoHandler)
}

package internal

import (
	"encoding/json"
	"net/http"

	"gaimporter/model"
	"gaimporter/model/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func DataServiceGAAddDocumentHandler(c *gin.Context) {
	r := c.Request

	var gaDocument model.GADocument
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&gaDocument); err != nil {
		log.WithError(err).Error("Failed to decode JSON request")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to decode JSON request."})
		return
	}

	errCode := store.GetStore().CreateGADocument(&gaDocument)
	if errCode == http.StatusConflict {
		log.WithField("document", gaDocument).
			Error("Failed to insert the google analytics document on create document.")
		c.AbortWithStatusJSON(errCode, gin.H{"error": "Duplicate documents."})
		return
	}

	if errCode != http.StatusCreated {
		c.AbortWithStatusJSON(errCode,
			gin.H{"error": "Failed creating google analytics document."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Created google analytics document."})
}

func DataServiceGAGetDocumentsHandler(c *gin.Context) {
	r := c.Request

	var payload model.GADocumentsPayload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		log.WithError(err).Error("Failed to decode Json request on google analytics get documents handler.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Invalid request json."})
		return
	}

	documents, status := store.GetStore().GetGADocuments(payload.ProjectID, payload.From, payload.To)
	c.JSON(status, documents)
}

func DataServiceGAGetLastSyncInfoHandler(c *gin.Context) {
	r := c.Request

	var payload model.GALastSyncInfoPayload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		log.WithError(err).Error("Failed to decode Json request on google analytics last sync info handler.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Invalid request json."})
		return
	}

	lastSyncInfo, status := store.GetStore().GetGALastSyncInfoForProject(payload.ProjectID)
	c.JSON(status, lastSyncInfo)
}

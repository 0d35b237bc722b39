package api

import (
	"net/http"
	"strings"

	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
)

// BackupHandler uploads and restores library snapshots.
type BackupHandler struct {
	backupService service.BackupService
}

func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

type RestoreBackupRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// POST /api/v1/backups
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	info, err := h.backupService.CreateBackup(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// POST /api/v1/backups/restore
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	var req RestoreBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.backupService.RestoreBackup(c.Request.Context(), req.ObjectKey); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/backups/*objectKey
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	objectKey := strings.TrimPrefix(c.Param("objectKey"), "/")
	if err := h.backupService.DeleteBackup(c.Request.Context(), objectKey); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

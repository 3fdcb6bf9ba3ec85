package api

import (
	"net/http"
	"strconv"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	logService service.LogService
}

func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// @Summary Get audit logs
// @Description Retrieves admin audit log entries, newest first
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} models.LogEntry
// @Failure 500 {object} map[string]string "Failed to retrieve logs"
// @Router /admin/logs [get]
func (h *LogHandler) GetAllLogs(c *gin.Context) {
	page, limit := pageParams(c)
	logs, err := h.logService.GetAllLogs(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// @Summary Get logs by admin ID
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param admin_id path string true "Admin ID"
// @Success 200 {array} models.LogEntry
// @Failure 400 {object} map[string]string "Invalid admin ID"
// @Router /admin/logs/admin/{admin_id} [get]
func (h *LogHandler) GetLogsByAdmin(c *gin.Context) {
	page, limit := pageParams(c)
	logs, err := h.logService.GetLogsByAdminID(c.Request.Context(), c.Param("admin_id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

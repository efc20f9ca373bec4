package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"markmycampus/internal/app"
	"markmycampus/internal/export"
	"markmycampus/internal/model"
	"markmycampus/internal/transport/http/response"
)

type AdminHandler struct {
	authService   *app.AuthService
	markerService *app.MarkerService
	statsService  *app.StatsService
	log           logrus.FieldLogger
	now           func() time.Time
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func NewAdminHandler(authService *app.AuthService, markerService *app.MarkerService, statsService *app.StatsService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		markerService: markerService,
		statsService:  statsService,
		log:           log,
		now:           time.Now,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, app.ErrMissingAdminPassword.Error())
		return
	}

	token, err := h.authService.AdminLogin(req.Password)
	if err != nil {
		writeServiceError(c, h.log, err, "Admin login failed")
		return
	}
	response.OK(c, gin.H{"token": token})
}

func (h *AdminHandler) ListMarkers(c *gin.Context) {
	markers, err := h.markerService.ListWithOwners(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to fetch markers")
		return
	}
	response.OK(c, gin.H{"markers": markers})
}

func (h *AdminHandler) DeleteMarker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid marker id")
		return
	}

	removed, err := h.markerService.DeleteByID(c.Request.Context(), uint(id))
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to delete marker")
		return
	}
	if !removed {
		writeServiceError(c, h.log, app.ErrMarkerNotFound, "Failed to delete marker")
		return
	}
	response.Message(c, "Marker deleted successfully")
}

func (h *AdminHandler) ClearAll(c *gin.Context) {
	deleted, err := h.markerService.DeleteAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to clear markers")
		return
	}
	response.OK(c, gin.H{
		"message":      "All markers cleared successfully",
		"deletedCount": deleted,
	})
}

func (h *AdminHandler) DownloadStats(c *gin.Context) {
	const failure = "Failed to generate statistics file"

	stats, markers, ok := h.exportData(c, failure)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStatsWorkbook(&buf, stats, markers); err != nil {
		writeServiceError(c, h.log, err, failure)
		return
	}
	h.attach(c, export.Filename("stats", "xlsx", h.now()), export.XLSXContentType, buf.Bytes())
}

func (h *AdminHandler) DownloadReport(c *gin.Context) {
	const failure = "Failed to generate report"

	markers, err := h.markerService.ListWithOwners(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, failure)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReportCSV(&buf, markers); err != nil {
		writeServiceError(c, h.log, err, failure)
		return
	}
	h.attach(c, export.Filename("report", "csv", h.now()), export.CSVContentType, buf.Bytes())
}

func (h *AdminHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.statsService.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to fetch activity")
		return
	}
	response.OK(c, gin.H{"events": events})
}

func (h *AdminHandler) exportData(c *gin.Context, failure string) ([]model.CategoryCount, []model.AdminMarker, bool) {
	stats, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, failure)
		return nil, nil, false
	}
	markers, err := h.markerService.ListWithOwners(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, failure)
		return nil, nil, false
	}
	return stats, markers, true
}

func (h *AdminHandler) attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, contentType, body)
}

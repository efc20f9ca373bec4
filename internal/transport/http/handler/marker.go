package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"markmycampus/internal/app"
	"markmycampus/internal/auth"
	"markmycampus/internal/transport/http/middleware"
	"markmycampus/internal/transport/http/response"
)

type MarkerHandler struct {
	markerService *app.MarkerService
	statsService  *app.StatsService
	log           logrus.FieldLogger
}

type CreateMarkerRequest struct {
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
	// Category is decoded leniently; anything but a string falls back to general.
	Category    json.RawMessage `json:"category"`
	Description string          `json:"description"`
}

func (r CreateMarkerRequest) categoryText() string {
	var text string
	if err := json.Unmarshal(r.Category, &text); err != nil {
		return ""
	}
	return text
}

func NewMarkerHandler(markerService *app.MarkerService, statsService *app.StatsService, log logrus.FieldLogger) *MarkerHandler {
	return &MarkerHandler{
		markerService: markerService,
		statsService:  statsService,
		log:           log,
	}
}

func (h *MarkerHandler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	user, ok := principal.(auth.UserPrincipal)
	if !ok {
		response.Error(c, http.StatusForbidden, "Access denied. Insufficient permissions.")
		return
	}

	var req CreateMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, app.ErrMissingCoordinates.Error())
		return
	}

	marker, err := h.markerService.Create(c.Request.Context(), app.CreateMarkerInput{
		OwnerID:     user.ID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.categoryText(),
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to save marker")
		return
	}

	response.OK(c, gin.H{
		"markerId":    marker.ID,
		"latitude":    marker.Latitude,
		"longitude":   marker.Longitude,
		"category":    marker.Category,
		"description": marker.Description,
	})
}

func (h *MarkerHandler) List(c *gin.Context) {
	markers, err := h.markerService.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to fetch markers")
		return
	}
	response.OK(c, gin.H{"markers": markers})
}

func (h *MarkerHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err, "Failed to fetch statistics")
		return
	}
	response.OK(c, gin.H{"stats": stats})
}

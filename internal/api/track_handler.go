package api

import (
	"net/http"
	"time"

	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackHandler serves recorded tracks, trainings and the catalog.
type TrackHandler struct {
	trackService service.TrackService
}

func NewTrackHandler(trackService service.TrackService) *TrackHandler {
	return &TrackHandler{trackService: trackService}
}

// --- DTOs ---

type LocationResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Speed     float64   `json:"speed"`
}

type TrackResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	StartTime     *time.Time         `json:"startTime,omitempty"`
	StopTime      *time.Time         `json:"stopTime,omitempty"`
	Distance      float64            `json:"distance"`
	Duration      int64              `json:"duration"`     // minutes
	AverageSpeed  float64            `json:"averageSpeed"` // km/h
	LocationCount int                `json:"locationCount"`
	Locations     []LocationResponse `json:"locations,omitempty"`
}

type TrainingResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Remarks        string    `json:"remarks,omitempty"`
	Date           time.Time `json:"date"`
	TrainingTypeID string    `json:"trainingTypeId,omitempty"`
	TrackID        string    `json:"trackId,omitempty"`
}

type TrainingTypeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Remarks   string  `json:"remarks,omitempty"`
	ImageName string  `json:"imageName,omitempty"`
	Speed     float64 `json:"speed"`
}

type MovementTypeResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Speed float64 `json:"speed"`
	Pace  float64 `json:"pace"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// MapTrackToResponse converts a track; locations are only included when requested.
func MapTrackToResponse(t *domain.Track, withLocations bool) TrackResponse {
	resp := TrackResponse{
		ID:            t.ID().String(),
		Name:          t.Name,
		Description:   t.Description,
		StartTime:     timePtr(t.StartTime),
		StopTime:      timePtr(t.StopTime),
		Distance:      t.Distance,
		Duration:      t.Duration(),
		AverageSpeed:  t.AverageSpeed(),
		LocationCount: len(t.Locations),
	}
	if withLocations {
		resp.Locations = make([]LocationResponse, 0, len(t.Locations))
		for _, l := range t.Locations {
			resp.Locations = append(resp.Locations, LocationResponse{
				ID:        l.ID().String(),
				Timestamp: l.Timestamp,
				Provider:  l.Provider,
				Latitude:  l.Latitude,
				Longitude: l.Longitude,
				Altitude:  l.Altitude,
				Speed:     l.Speed,
			})
		}
	}
	return resp
}

// --- Handler Methods ---

// GET /api/v1/tracks
func (h *TrackHandler) ListTracks(c *gin.Context) {
	tracks, err := h.trackService.ListTracks(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		resp = append(resp, MapTrackToResponse(t, false))
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/tracks/:trackId
func (h *TrackHandler) GetTrack(c *gin.Context) {
	track, err := h.trackService.GetTrack(c.Request.Context(), c.Param("trackId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrackToResponse(track, true))
}

// DELETE /api/v1/tracks/:trackId
func (h *TrackHandler) DeleteTrack(c *gin.Context) {
	if err := h.trackService.DeleteTrack(c.Request.Context(), c.Param("trackId")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/trainings
func (h *TrackHandler) ListTrainings(c *gin.Context) {
	trainings, err := h.trackService.ListTrainings(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]TrainingResponse, 0, len(trainings))
	for _, t := range trainings {
		resp = append(resp, TrainingResponse{
			ID:             t.ID().String(),
			Name:           t.Name,
			Remarks:        t.Remarks,
			Date:           t.Date,
			TrainingTypeID: t.TrainingTypeID.String(),
			TrackID:        t.TrackID.String(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/catalog/training-types
func (h *TrackHandler) ListTrainingTypes(c *gin.Context) {
	types, err := h.trackService.ListTrainingTypes(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]TrainingTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, TrainingTypeResponse{
			ID:        t.ID().String(),
			Name:      t.Name,
			Remarks:   t.Remarks,
			ImageName: t.ImageName,
			Speed:     t.Speed,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/catalog/movement-types
func (h *TrackHandler) ListMovementTypes(c *gin.Context) {
	types, err := h.trackService.ListMovementTypes(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]MovementTypeResponse, 0, len(types))
	for _, m := range types {
		resp = append(resp, MovementTypeResponse{
			ID:    m.ID().String(),
			Name:  m.Name,
			Color: m.ColorKeyString,
			Speed: m.Speed,
			Pace:  m.Pace,
		})
	}
	c.JSON(http.StatusOK, resp)
}

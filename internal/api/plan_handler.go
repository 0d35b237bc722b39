package api

import (
	"net/http"
	"slices"
	"time"

	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves running plans.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type SetStartDateRequest struct {
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
}

type RunningUnitResponse struct {
	ID             string `json:"id"`
	Duration       int64  `json:"duration"`
	Completed      bool   `json:"completed"`
	MovementTypeID string `json:"movementTypeId,omitempty"`
}

type RunningPlanEntryResponse struct {
	ID               string                `json:"id"`
	Week             int                   `json:"week"`
	Day              int                   `json:"day"`
	Date             string                `json:"date"`
	Flex             bool                  `json:"flex"`
	Duration         int64                 `json:"duration"`
	Distance         float64               `json:"distance,omitempty"`
	Completed        bool                  `json:"completed"`
	PercentCompleted int                   `json:"percentCompleted"`
	Units            []RunningUnitResponse `json:"units"`
}

type RunningPlanResponse struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name"`
	Remarks          string                     `json:"remarks,omitempty"`
	OrderNumber      int                        `json:"orderNumber"`
	IsTemplate       bool                       `json:"isTemplate"`
	StartDate        string                     `json:"startDate"`
	Duration         int64                      `json:"duration"`
	Completed        bool                       `json:"completed"`
	PercentCompleted int                        `json:"percentCompleted"`
	Entries          []RunningPlanEntryResponse `json:"entries"`
}

// MapPlanToResponse converts a plan to its DTO with entries in week/day order.
// Derived values are computed here, they are never stored.
func MapPlanToResponse(p *domain.RunningPlan) RunningPlanResponse {
	entries := slices.Clone(p.Entries)
	domain.SortEntries(entries)

	resp := RunningPlanResponse{
		ID:               p.ID().String(),
		Name:             p.Name,
		Remarks:          p.Remarks,
		OrderNumber:      p.OrderNumber,
		IsTemplate:       p.IsTemplate,
		StartDate:        formatDate(p.StartDate()),
		Duration:         p.Duration(),
		Completed:        p.IsCompleted(),
		PercentCompleted: p.PercentCompleted(),
		Entries:          make([]RunningPlanEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		entry := RunningPlanEntryResponse{
			ID:               e.ID().String(),
			Week:             e.Week(),
			Day:              e.Day(),
			Date:             formatDate(p.EntryDate(e)),
			Flex:             e.IsFlex(),
			Duration:         e.Duration(),
			Distance:         e.Distance,
			Completed:        e.IsCompleted(),
			PercentCompleted: e.PercentCompleted(),
			Units:            make([]RunningUnitResponse, 0, len(e.Units)),
		}
		for _, u := range e.Units {
			entry.Units = append(entry.Units, RunningUnitResponse{
				ID:             u.ID().String(),
				Duration:       u.Duration,
				Completed:      u.Completed,
				MovementTypeID: u.MovementTypeID.String(),
			})
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}

// --- Handler Methods ---

// ListPlans returns the user's plans, or the templates with ?templates=true.
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	templates := c.Query("templates") == "true"
	plans, err := h.planService.ListPlans(c.Request.Context(), templates)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]RunningPlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, MapPlanToResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/plans/:planId
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DELETE /api/v1/plans/:planId
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStartDate moves the plan start to the Monday on or after the given day.
// PUT /api/v1/plans/:planId/start-date
func (h *PlanHandler) SetStartDate(c *gin.Context) {
	var req SetStartDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate format, expected YYYY-MM-DD")
		return
	}
	plan, err := h.planService.SetStartDate(c.Request.Context(), c.Param("planId"), date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// POST /api/v1/plans/:planId/units/:unitId/complete
func (h *PlanHandler) CompleteUnit(c *gin.Context) {
	plan, err := h.planService.CompleteUnit(c.Request.Context(), c.Param("planId"), c.Param("unitId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// POST /api/v1/plans/:planId/activate
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	user, err := h.planService.ActivatePlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

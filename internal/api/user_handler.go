package api

import (
	"net/http"
	"time"

	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the profile of the single app user.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest carries optional profile fields; omitted fields are unchanged.
type UpdateUserRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	EmailAddress  *string `json:"emailAddress" binding:"omitempty,email"`
	Gender        *int    `json:"gender" binding:"omitempty,min=0,max=3"`
	TrainingLevel *int    `json:"trainingLevel" binding:"omitempty,min=0,max=2"`
	Birthday      *string `json:"birthday"` // YYYY-MM-DD
	MaxPulse      *int    `json:"maxPulse" binding:"omitempty,min=0"`
}

type UserResponse struct {
	ID                  string `json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	EmailAddress        string `json:"emailAddress"`
	Gender              int    `json:"gender"`
	TrainingLevel       int    `json:"trainingLevel"`
	Birthday            string `json:"birthday,omitempty"`
	MaxPulse            int    `json:"maxPulse"`
	ActiveRunningPlanID string `json:"activeRunningPlanId,omitempty"`
}

func MapUserToResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:                  u.ID().String(),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		EmailAddress:        u.EmailAddress,
		Gender:              int(u.Gender),
		TrainingLevel:       int(u.TrainingLevel),
		MaxPulse:            u.MaxPulse,
		ActiveRunningPlanID: u.ActiveRunningPlanID.String(),
	}
	if u.Birthday != nil {
		resp.Birthday = formatDate(*u.Birthday)
	}
	return resp
}

// GET /api/v1/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// PUT /api/v1/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	update := service.UserUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		MaxPulse:     req.MaxPulse,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		update.Gender = &g
	}
	if req.TrainingLevel != nil {
		l := domain.TrainingLevel(*req.TrainingLevel)
		update.TrainingLevel = &l
	}
	if req.Birthday != nil {
		birthday, err := time.Parse(dateLayout, *req.Birthday)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid birthday format, expected YYYY-MM-DD")
			return
		}
		update.Birthday = &birthday
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), update)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

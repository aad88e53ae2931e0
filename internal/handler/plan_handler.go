package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/usecase"
)

// PlanHandler exposes the plan-generation API.
type PlanHandler struct {
	planUseCase usecase.PlanGenerationUseCase
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planUseCase usecase.PlanGenerationUseCase) *PlanHandler {
	return &PlanHandler{planUseCase: planUseCase}
}

// PostGeneratePlan generates a page of date themes.
// POST /plans/generate
func (h *PlanHandler) PostGeneratePlan(c *gin.Context) {
	var req model.PlanRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	response, err := h.planUseCase.GeneratePlan(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate plan: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMoods lists supported mood and time-of-day tokens.
// GET /plans/moods
func (h *PlanHandler) GetMoods(c *gin.Context) {
	moods, timesOfDay := h.planUseCase.ListMoods()
	c.JSON(http.StatusOK, gin.H{
		"moods":        moods,
		"times_of_day": timesOfDay,
	})
}

// validateRequest performs the detailed field validation.
func (h *PlanHandler) validateRequest(req *model.PlanRequest) error {
	if req.OriginLat < -90 || req.OriginLat > 90 {
		return &ValidationError{Field: "origin_lat", Message: "latitude must be between -90 and 90"}
	}
	if req.OriginLng < -180 || req.OriginLng > 180 {
		return &ValidationError{Field: "origin_lng", Message: "longitude must be between -180 and 180"}
	}
	if len(req.NormalizedMoods()) == 0 {
		return &ValidationError{Field: "moods", Message: "at least one mood is required"}
	}
	if req.MaxDistanceMeters <= 0 {
		return &ValidationError{Field: "max_distance_meters", Message: "a positive search radius is required"}
	}
	if req.PageSize < 0 {
		return &ValidationError{Field: "page_size", Message: "page_size must not be negative"}
	}

	tod := req.NormalizedTimeOfDay()
	for _, valid := range model.SupportedTimesOfDay() {
		if tod == valid {
			return nil
		}
	}
	return &ValidationError{Field: "time_of_day", Message: "time_of_day must be one of morning, afternoon, evening, night, any"}
}

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

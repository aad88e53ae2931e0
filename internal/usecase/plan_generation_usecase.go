package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/service"
)

// PlanGenerationUseCase is the application entry point for plan generation.
type PlanGenerationUseCase interface {
	// GeneratePlan produces one page of themed date results for a request.
	GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.PlanResponse, error)

	// ListMoods returns the supported mood and time-of-day tokens.
	ListMoods() ([]string, []string)
}

type planGenerationUseCaseImpl struct {
	planService service.PlanGenerationService
}

// NewPlanGenerationUseCase creates a new PlanGenerationUseCase.
func NewPlanGenerationUseCase(planService service.PlanGenerationService) PlanGenerationUseCase {
	return &planGenerationUseCaseImpl{planService: planService}
}

func (u *planGenerationUseCaseImpl) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.PlanResponse, error) {
	requestID := uuid.New().String()
	log.Printf("🚀 plan generation started (request: %s, moods: %v, timeOfDay: %s, radius: %dm, curatedOnly: %t)",
		requestID, req.NormalizedMoods(), req.NormalizedTimeOfDay(), req.MaxDistanceMeters, req.RequireCuratedOnly)

	response, err := u.planService.GeneratePlan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	log.Printf("✅ plan generated (request: %s, themes: %d, relaxationLevel: %d, radiusUsed: %dm)",
		requestID, len(response.Themes), response.RelaxationLevel, response.RadiusUsedMeters)
	return response, nil
}

func (u *planGenerationUseCaseImpl) ListMoods() ([]string, []string) {
	return model.SupportedMoods(), model.SupportedTimesOfDay()
}

package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"alcyxob/sports-library/internal/domain"
)

var (
	ErrPlanNotFound = errors.New("running plan not found")
	ErrUnitNotFound = errors.New("running unit not found in plan")
)

type PlanService interface {
	ListPlans(ctx context.Context, templates bool) ([]*domain.RunningPlan, error)
	GetPlan(ctx context.Context, planID string) (*domain.RunningPlan, error)
	SetStartDate(ctx context.Context, planID string, date time.Time) (*domain.RunningPlan, error)
	CompleteUnit(ctx context.Context, planID, unitID string) (*domain.RunningPlan, error)
	ActivatePlan(ctx context.Context, planID string) (*domain.User, error)
	DeletePlan(ctx context.Context, planID string) error
}

// planService implements the PlanService interface.
type planService struct {
	lib *Library
}

func NewPlanService(lib *Library) PlanService {
	return &planService{lib: lib}
}

// ListPlans returns templates or user plans ordered by their order number.
func (s *planService) ListPlans(ctx context.Context, templates bool) ([]*domain.RunningPlan, error) {
	all, err := FindAllOf[*domain.RunningPlan](ctx, s.lib)
	if err != nil {
		return nil, err
	}
	plans := make([]*domain.RunningPlan, 0, len(all))
	for _, p := range all {
		if p.IsTemplate == templates {
			plans = append(plans, p)
		}
	}
	slices.SortStableFunc(plans, func(a, b *domain.RunningPlan) int {
		return cmp.Compare(a.OrderNumber, b.OrderNumber)
	})
	return plans, nil
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*domain.RunningPlan, error) {
	plan, found, err := Find[*domain.RunningPlan](ctx, s.lib, planID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// SetStartDate moves the plan to the Monday on or after date.
func (s *planService) SetStartDate(ctx context.Context, planID string, date time.Time) (*domain.RunningPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.SetStartDate(date)
	if err := s.lib.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) CompleteUnit(ctx context.Context, planID, unitID string) (*domain.RunningPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.CompleteUnit(domain.GeneratedIdentity(unitID)) {
		return nil, ErrUnitNotFound
	}
	// The unit is owned by the plan, so the update cascades to its own collection.
	if err := s.lib.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ActivatePlan makes the plan the user's active one, starting next Monday.
func (s *planService) ActivatePlan(ctx context.Context, planID string) (*domain.User, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.SetStartDate(time.Now())
	if err := s.lib.Update(ctx, plan); err != nil {
		return nil, err
	}
	user, err := s.lib.AppUser(ctx)
	if err != nil {
		return nil, err
	}
	user.ActiveRunningPlanID = plan.ID()
	if err := s.lib.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeletePlan removes the plan with its entries and units. A user still
// pointing at it keeps the dangling reference.
func (s *planService) DeletePlan(ctx context.Context, planID string) error {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	return s.lib.Delete(ctx, plan)
}

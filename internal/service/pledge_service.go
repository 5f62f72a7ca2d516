package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

// PledgeService provides business logic for pledging.
type PledgeService interface {
	// Pledge records one pledge by userID. It returns funding.ErrInvalidAmount,
	// funding.ErrAlreadyFunded or *funding.ExceedsRemainingError when the guard
	// rejects the amount; nothing is stored in that case.
	Pledge(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error)
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error)
}

type pledgeService struct {
	projects repository.ProjectRepository
	pledges  repository.PledgeRepository
}

// NewPledgeService creates a PledgeService.
func NewPledgeService(projects repository.ProjectRepository, pledges repository.PledgeRepository) PledgeService {
	return &pledgeService{projects: projects, pledges: pledges}
}

func (s *pledgeService) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	return s.pledges.ListByProjectID(ctx, projectID)
}

func (s *pledgeService) Pledge(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
	// 残り金額はクライアントの値ではなく最新のプロジェクトから計算する
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := funding.CheckPledge(p, amount); err != nil {
		return nil, err
	}

	pledge := &model.Pledge{ProjectID: projectID, UserID: userID, Amount: amount}
	err = s.pledges.Create(ctx, pledge)
	switch {
	case err == nil:
		return pledge, nil
	case errors.Is(err, repository.ErrInvalidAmount):
		return nil, funding.ErrInvalidAmount
	case errors.Is(err, repository.ErrExceedsRemaining):
		// 同時に別の支援が入った。最新の残り金額で拒否する
		fresh, gerr := s.projects.GetByID(ctx, projectID)
		if gerr != nil {
			return nil, fmt.Errorf("reload project: %w", gerr)
		}
		if funding.Completed(fresh.CurrentAmount, fresh.GoalAmount) {
			return nil, funding.ErrAlreadyFunded
		}
		return nil, &funding.ExceedsRemainingError{Remaining: funding.Remaining(fresh.GoalAmount, fresh.CurrentAmount)}
	default:
		return nil, fmt.Errorf("create pledge: %w", err)
	}
}
